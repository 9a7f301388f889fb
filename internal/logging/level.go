package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// NormalizeLevel maps level spellings (WARNING, WRN, err, Crit, ...) to the
// logrus level they name. Names are matched case-insensitively, first in full
// and then by their four-letter prefix.
func NormalizeLevel(name string) (logrus.Level, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(name))

	switch normalized {
	case "TRACE", "TRAC", "TRC":
		return logrus.TraceLevel, true
	case "DEBUG", "DEBU", "DBG", "DEB":
		return logrus.DebugLevel, true
	case "INFO", "INFORMATION", "INF":
		return logrus.InfoLevel, true
	case "WARN", "WARNING", "WRN":
		return logrus.WarnLevel, true
	case "ERROR", "ERR", "ERRO":
		return logrus.ErrorLevel, true
	case "FATAL", "FTL", "CRITICAL", "CRIT":
		return logrus.FatalLevel, true
	}

	if len(normalized) >= 4 {
		switch normalized[:4] {
		case "TRAC":
			return logrus.TraceLevel, true
		case "DEBU":
			return logrus.DebugLevel, true
		case "INFO":
			return logrus.InfoLevel, true
		case "WARN":
			return logrus.WarnLevel, true
		case "ERRO":
			return logrus.ErrorLevel, true
		case "FATA", "CRIT":
			return logrus.FatalLevel, true
		}
	}
	return logrus.InfoLevel, false
}
