package model

type Alert struct {
	AlertID    uint64  `gorm:"column:alert_id;primaryKey;autoIncrement"`
	Timestamp  string  `gorm:"column:timestamp;type:text;not null;index"`
	RiskLevel  string  `gorm:"column:risk_level;type:text;not null"`
	Score      float64 `gorm:"column:score;not null"`
	MissingPPE string  `gorm:"column:missing_ppe;type:text;not null;default:''"`
	CameraID   string  `gorm:"column:camera_id;type:text;not null;default:'CAM-01'"`
	Resolved   bool    `gorm:"column:resolved;not null;default:0;index"`
}

func (Alert) TableName() string {
	return "alert_logs"
}
