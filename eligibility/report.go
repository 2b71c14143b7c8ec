package eligibility

import (
	"strings"

	"eldato-web/apperrors"
	"eldato-web/models"
	"eldato-web/utils"
)

// BuildReport validates a report and composes its reason as "<motive> - <detail>"
func BuildReport(reporterID uint, in models.ReportCreate) (models.Report, error) {
	motive := strings.TrimSpace(in.Motive)
	detail := strings.TrimSpace(in.Detail)
	if motive == "" {
		return models.Report{}, apperrors.Validation("Select a reason for the report.")
	}
	if (in.RatingID == nil) == (in.ServiceID == nil) {
		return models.Report{}, apperrors.Validation("A report must point at exactly one rating or one service.")
	}
	in.Motive, in.Detail = motive, detail
	if err := utils.ValidateStruct(in, "invalid report"); err != nil {
		return models.Report{}, err
	}

	reason := motive
	if detail != "" {
		reason = motive + " - " + detail
	}
	return models.Report{
		ReporterID: reporterID,
		RatingID:   in.RatingID,
		ServiceID:  in.ServiceID,
		Reason:     reason,
	}, nil
}
