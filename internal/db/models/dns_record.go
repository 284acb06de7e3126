package models

import "time"

// DNSRecord is one resource record of a ZoneFile. The typed columns are only set for the
// record types they belong to.
type DNSRecord struct {
	ID         int64   `gorm:"primaryKey;column:id" json:"-"`
	ZoneFileID int64   `gorm:"column:zone_file_id;not null;index" json:"zone_file_id"`
	RecordType string  `gorm:"column:record_type;size:10;not null" json:"record_type"`
	Name       string  `gorm:"column:name;size:255;not null" json:"name"`
	Value      string  `gorm:"column:value;type:text;not null" json:"value"`
	TTL        *uint32 `gorm:"column:ttl" json:"ttl"` // NULL: inherit the zone default
	Status     string  `gorm:"column:status;size:20;not null;default:active" json:"status"`
	CreatedBy  int64   `gorm:"column:created_by" json:"created_by"`

	AddressIPv4 *string `gorm:"column:address_ipv4;size:15" json:"address_ipv4,omitempty"`
	AddressIPv6 *string `gorm:"column:address_ipv6;size:45" json:"address_ipv6,omitempty"`
	CNAMETarget *string `gorm:"column:cname_target;size:255" json:"cname_target,omitempty"`
	MXTarget    *string `gorm:"column:mx_target;size:255" json:"mx_target,omitempty"`
	NSTarget    *string `gorm:"column:ns_target;size:255" json:"ns_target,omitempty"`
	PTRDName    *string `gorm:"column:ptrdname;size:255" json:"ptrdname,omitempty"`
	TXT         *string `gorm:"column:txt;type:text" json:"txt,omitempty"`
	SRVTarget   *string `gorm:"column:srv_target;size:255" json:"srv_target,omitempty"`
	Priority    *uint16 `gorm:"column:priority" json:"priority,omitempty"`
	Weight      *uint16 `gorm:"column:weight" json:"weight,omitempty"`
	Port        *uint16 `gorm:"column:port" json:"port,omitempty"`
	CAAFlag     *uint8  `gorm:"column:caa_flag" json:"caa_flag,omitempty"`
	CAATag      *string `gorm:"column:caa_tag;size:32" json:"caa_tag,omitempty"`
	CAAValue    *string `gorm:"column:caa_value;size:255" json:"caa_value,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"-"`
}

// TableName implements gorm's tabler.
func (DNSRecord) TableName() string {
	return "dns_records"
}
