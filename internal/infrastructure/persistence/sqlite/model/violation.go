package model

type Violation struct {
	ViolationID       uint64  `gorm:"column:violation_id;primaryKey;autoIncrement"`
	Timestamp         string  `gorm:"column:timestamp;type:text;not null;index"`
	RiskLevel         string  `gorm:"column:risk_level;type:text;not null;index"`
	Score             float64 `gorm:"column:score;not null"`
	MissingPPE        string  `gorm:"column:missing_ppe;type:text;not null;default:''"`
	PostureDeviation  float64 `gorm:"column:posture_deviation;not null;default:0"`
	InactivitySeconds float64 `gorm:"column:inactivity_seconds;not null;default:0"`
	PPEScore          float64 `gorm:"column:ppe_score;not null;default:0"`
	PostureScore      float64 `gorm:"column:posture_score;not null;default:0"`
	InactivityScore   float64 `gorm:"column:inactivity_score;not null;default:0"`
	CameraID          string  `gorm:"column:camera_id;type:text;not null;default:'CAM-01'"`
}

func (Violation) TableName() string {
	return "violation_logs"
}
