package bot

import (
	"strings"

	"github.com/edubase/remote-console/internal/report"
)

// Callback data layouts:
//
//	status_<report_id>_<status>
//	details_<report_id>
//	back_<report_id>
//	view_<report_id>
//	list_tag_<tag> / list_all
const (
	callbackStatusPrefix  = "status_"
	callbackDetailsPrefix = "details_"
	callbackBackPrefix    = "back_"
	callbackViewPrefix    = "view_"
	callbackListTagPrefix = "list_tag_"
	callbackListAll       = "list_all"
)

// parseStatusCallback splits status callback data. report_id itself contains
// underscores (chat id, message id), so the status is matched as a suffix,
// longest status name first.
func parseStatusCallback(data string) (reportID string, status report.Status, ok bool) {
	rest, hasPrefix := strings.CutPrefix(data, callbackStatusPrefix)
	if !hasPrefix {
		return "", "", false
	}

	for _, s := range report.Statuses() {
		suffix := "_" + string(s)
		if strings.HasSuffix(rest, suffix) {
			return rest[:len(rest)-len(suffix)], s, true
		}
	}
	return "", "", false
}
