package session

import (
	"time"

	"github.com/KaramelBytes/safetylens-cli/internal/incident"
	"github.com/KaramelBytes/safetylens-cli/internal/parser"
)

// Dataset is one loaded file and everything derived from it on load.
type Dataset struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Rows     int       `json:"rows"`
	Dropped  int       `json:"dropped"`
	LoadedAt time.Time `json:"loaded_at"`

	table      *parser.Table
	incidents  []incident.Incident
	reportRows []incident.ReportRow
	byID       map[string]int // incident id -> position in reportRows
}

// Table returns the parsed source table.
func (d *Dataset) Table() *parser.Table { return d.table }
