package models

import "time"

// BackupVersion is written into every exported backup
const BackupVersion = "1.0"

// Backup is the whole-state export document
type Backup struct {
	CompanySettings *CompanySettings `json:"companySettings,omitempty"`
	Clients         []Client         `json:"clients"`
	Products        []Product        `json:"products"`
	Invoices        []Invoice        `json:"invoices"`
	ExportDate      time.Time        `json:"exportDate"`
	Version         string           `json:"version"`
}

// ImportResult reports what an import changed
type ImportResult struct {
	Clients  int `json:"clients"`
	Products int `json:"products"`
	Invoices int `json:"invoices"`
	Failed   int `json:"failed"`
}
