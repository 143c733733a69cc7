package models

type TableColumn struct {
	Name     string  `json:"column_name"`
	DataType string  `json:"data_type"`
	Nullable string  `json:"is_nullable"`
	Default  *string `json:"column_default"`
}

type TableData struct {
	Table   string           `json:"table"`
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Limit   int              `json:"limit"`
}

// MirrorRebuildResult reports the rows written per mirrored table.
type MirrorRebuildResult struct {
	Tables map[string]int `json:"tablas"`
}
