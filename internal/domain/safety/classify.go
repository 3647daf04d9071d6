package safety

import "strings"

// Classify maps a report into a violation record and, for MEDIUM/HIGH risk,
// an alert derived from the same fields. Pure transformation: all defaulting
// happens here and nowhere else.
func Classify(report Report) (Violation, *Alert) {
	riskLevel := strings.TrimSpace(report.RiskLevel)
	if riskLevel == "" {
		riskLevel = RiskLow
	}

	cameraID := strings.TrimSpace(report.CameraID)
	if cameraID == "" {
		cameraID = DefaultCameraID
	}

	missingPPE := JoinPPE(report.MissingPPE)

	violation := Violation{
		RiskLevel:         riskLevel,
		Score:             report.Score,
		MissingPPE:        missingPPE,
		PostureDeviation:  report.PostureDeviation,
		InactivitySeconds: report.InactivitySeconds,
		PPEScore:          report.Breakdown.PPEScore,
		PostureScore:      report.Breakdown.PostureScore,
		InactivityScore:   report.Breakdown.InactivityScore,
		CameraID:          cameraID,
	}

	if !TriggersAlert(riskLevel) {
		return violation, nil
	}

	return violation, &Alert{
		RiskLevel:  riskLevel,
		Score:      report.Score,
		MissingPPE: missingPPE,
		CameraID:   cameraID,
	}
}

// JoinPPE renders a missing-PPE label list as the comma-joined text form the
// store and the alert panel use ("Helmet, Safety Vest").
func JoinPPE(labels []string) string {
	return strings.Join(labels, ", ")
}
