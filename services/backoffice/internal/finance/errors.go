package finance

import "errors"

var ErrReportNotFound = errors.New("financial report not found")
