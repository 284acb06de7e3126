package models

import "time"

// ZoneFileInclude links a parent zone file to an included one.
type ZoneFileInclude struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"-"`
	ParentID  int64     `gorm:"column:parent_id;not null;uniqueIndex:idx_zone_file_include" json:"parent_id"`
	IncludeID int64     `gorm:"column:include_id;not null;uniqueIndex:idx_zone_file_include" json:"include_id"`
	Position  int       `gorm:"column:position;not null" json:"position"`
	CreatedAt time.Time `gorm:"column:created_at" json:"-"`
}

// TableName implements gorm's tabler.
func (ZoneFileInclude) TableName() string {
	return "zone_file_includes"
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{&ZoneFile{}, &DNSRecord{}, &ZoneFileInclude{}}
}
