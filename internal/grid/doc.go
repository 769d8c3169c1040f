// Package grid is a small generic data grid: column definitions with
// uniform defaults, one active sort, per-column "contains" filters,
// pagination and CSV/XLSX export. Rendering is left to the caller.
package grid
