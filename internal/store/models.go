package store

import "time"

// radcheck属性の定数
const (
	// AttrPassword は平文パスワード属性
	AttrPassword = "Cleartext-Password"
	// AttrExpiration はアカウント失効日時属性
	AttrExpiration = "Expiration"
	// OpAssign は代入演算子
	OpAssign = ":="
)

// groupPriority はradusergroup行に設定する優先度。
const groupPriority = 1

// RadCheck はradcheckテーブルの1行を表す。
// usernameと属性の組はユニーク制約で一意に保たれる。
type RadCheck struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Username  string `gorm:"column:username;size:64;uniqueIndex:uniq_radcheck_user_attr"`
	Attribute string `gorm:"column:attribute;size:64;uniqueIndex:uniq_radcheck_user_attr"`
	Op        string `gorm:"column:op;size:2"`
	Value     string `gorm:"column:value;size:253"`
}

// TableName はテーブル名を返す。
func (RadCheck) TableName() string { return "radcheck" }

// RadReply はradreplyテーブルの1行を表す。
type RadReply struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Username  string `gorm:"column:username;size:64;index"`
	Attribute string `gorm:"column:attribute;size:64"`
	Op        string `gorm:"column:op;size:2"`
	Value     string `gorm:"column:value;size:253"`
}

// TableName はテーブル名を返す。
func (RadReply) TableName() string { return "radreply" }

// RadUserGroup はradusergroupテーブルの1行を表す。
// FreeRADIUSスキーマに合わせてサロゲートキーは持たない。
type RadUserGroup struct {
	Username  string `gorm:"column:username;size:64;index"`
	GroupName string `gorm:"column:groupname;size:64"`
	Priority  int    `gorm:"column:priority"`
}

// TableName はテーブル名を返す。
func (RadUserGroup) TableName() string { return "radusergroup" }

// UserInfo はdaloRADIUSのuserinfoテーブルの1行を表す（使用する列のみ）。
// このテーブルはオプションであり、不在は許容される。
type UserInfo struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string    `gorm:"column:username;size:128;index"`
	CreationDate time.Time `gorm:"column:creationdate"`
	CreationBy   string    `gorm:"column:creationby;size:128"`
}

// TableName はテーブル名を返す。
func (UserInfo) TableName() string { return "userinfo" }
