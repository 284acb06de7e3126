// Package models contains database model definitions.
package models

import "time"

// Zone file kinds stored in ZoneFile.FileType.
const (
	FileTypeMaster  = "master"
	FileTypeInclude = "include"
)

// StatusActive is the status of every imported row.
const StatusActive = "active"

// ZoneFile is one imported master or include file.
type ZoneFile struct {
	ID       int64  `gorm:"primaryKey;column:id" json:"-"`
	Name     string `gorm:"column:name;size:255;not null;index" json:"name"`
	Filename string `gorm:"column:filename;size:255" json:"filename"`
	FileType string `gorm:"column:file_type;size:20;not null" json:"file_type"`
	Status   string `gorm:"column:status;size:20;not null;default:active" json:"status"`
	// CreatedBy is the importing user id.
	CreatedBy int64  `gorm:"column:created_by" json:"created_by"`
	Domain    string `gorm:"column:domain;size:255" json:"domain"`
	Content   string `gorm:"column:content;type:text" json:"content"`
	Directory string `gorm:"column:directory;size:255" json:"directory"`

	DefaultTTL uint32 `gorm:"column:default_ttl" json:"default_ttl"`

	// SOA fields are set for master files only.
	SOARefresh *uint32 `gorm:"column:soa_refresh" json:"soa_refresh,omitempty"`
	SOARetry   *uint32 `gorm:"column:soa_retry" json:"soa_retry,omitempty"`
	SOAExpire  *uint32 `gorm:"column:soa_expire" json:"soa_expire,omitempty"`
	SOAMinimum *uint32 `gorm:"column:soa_minimum" json:"soa_minimum,omitempty"`
	SOARName   *string `gorm:"column:soa_rname;size:255" json:"soa_rname,omitempty"`
	MName      *string `gorm:"column:mname;size:255" json:"mname,omitempty"`
	SOASerial  *uint32 `gorm:"column:soa_serial" json:"soa_serial,omitempty"`

	DNSSECIncludeKSK *string `gorm:"column:dnssec_include_ksk;size:512" json:"dnssec_include_ksk,omitempty"`
	DNSSECIncludeZSK *string `gorm:"column:dnssec_include_zsk;size:512" json:"dnssec_include_zsk,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"-"`
}

// TableName implements gorm's tabler.
func (ZoneFile) TableName() string {
	return "zone_files"
}
