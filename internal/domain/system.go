package domain

import (
	"time"
)

type SysConfig struct {
	ID        int64     `json:"id,string"   form:"id"`
	Sort      int       `json:"sort"  form:"sort"`
	Type      string    `gorm:"index" json:"type" form:"type"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Value     string    `json:"value" form:"value"`
	Remark    string    `json:"remark" form:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (SysConfig) TableName() string {
	return "sys_config"
}

// AuditLog records privileged staff actions (order deletion, catalog CRUD).
type AuditLog struct {
	ID        int64     `json:"id,string"`
	Operator  string    `json:"operator"`
	OperIP    string    `json:"oper_ip"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	OperTime  time.Time `gorm:"index" json:"oper_time"`
}

// TableName Specify table name
func (AuditLog) TableName() string {
	return "audit_log"
}
