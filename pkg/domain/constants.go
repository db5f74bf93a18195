package domain

// Well-known State keys. Engines may store additional keys.
const (
	KeySorting          = "sorting"
	KeyColumnFilters    = "columnFilters"
	KeyGlobalFilter     = "globalFilter"
	KeyPagination       = "pagination"
	KeyGrouping         = "grouping"
	KeyColumnVisibility = "columnVisibility"
	KeyColumnOrder      = "columnOrder"
	KeyRowSelection     = "rowSelection"
	KeyExpanded         = "expanded"
)

// DefaultPageSize is used when the pagination state carries no page size.
const DefaultPageSize = 10
