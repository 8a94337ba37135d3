// Package exporter renders analytics tables as CSV downloads.
package exporter
