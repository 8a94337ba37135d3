// Package dataset owns the raw dataset: parsing uploaded CSV/Excel files
// into a columnar Frame, converting rows into typed analytics records, and
// publishing immutable snapshots through an atomically swapped Store.
package dataset
