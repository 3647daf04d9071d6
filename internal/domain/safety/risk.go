package safety

// Risk levels assigned upstream by the detection layer. Values outside this
// set are stored verbatim but never raise an alert.
const (
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"
)

// DefaultCameraID is used when a report does not identify its camera.
const DefaultCameraID = "CAM-01"

// TriggersAlert reports whether a risk level produces an alert record.
// This is an explicit membership check: unknown levels never alert.
func TriggersAlert(riskLevel string) bool {
	return riskLevel == RiskMedium || riskLevel == RiskHigh
}
