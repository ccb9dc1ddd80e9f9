package batcherror

import "fmt"

const (
	BATCH_UNEXPECTED       = "PGBTU"
	BATCH_RECORDS_OVERFLOW = "PGBTO"
	BATCH_PREPARE_SYNC     = "PGBTP"
	BATCH_CONFIG_ERROR     = "PGBTC"
)

var existingErrorCodeMap = map[string]string{
	BATCH_RECORDS_OVERFLOW: "records affected exceeds int32 range",
	BATCH_PREPARE_SYNC:     "prepared statement entry out of sync",
	BATCH_CONFIG_ERROR:     "invalid batch configuration",
}

func GetMessageByCode(errorCode string) string {
	rep, ok := existingErrorCodeMap[errorCode]
	if ok {
		return rep
	}
	return "Unexpected error"
}

var _ error = &BatchError{}

type BatchError struct {
	Err error

	ErrorCode string
}

func NewBatchError(errorMsg string, errorCode string) *BatchError {
	err := BatchError{
		Err:       fmt.Errorf("%s", errorMsg),
		ErrorCode: errorCode,
	}
	return &err
}

func (er *BatchError) Error() string {
	return fmt.Sprintf("Code: %s. Name: %s. Description: %s.",
		er.ErrorCode, GetMessageByCode(er.ErrorCode), er.Err)
}
