package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// AnswerValue is the raw JSON a respondent submitted. It is stored as jsonb
// on postgres and as text elsewhere, so a bare number or boolean keeps its
// JSON spelling on every driver.
type AnswerValue []byte

func (a AnswerValue) Value() (driver.Value, error) {
	if len(a) == 0 {
		return nil, nil
	}
	return string(a), nil
}

// Scan accepts whatever the driver hands back for the column. Drivers with
// numeric affinity return numbers and booleans as Go values; those are
// turned back into their JSON text.
func (a *AnswerValue) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*a = nil
	case []byte:
		*a = append(AnswerValue(nil), v...)
	case string:
		*a = AnswerValue(v)
	case int64:
		*a = AnswerValue(strconv.FormatInt(v, 10))
	case float64:
		*a = AnswerValue(strconv.FormatFloat(v, 'f', -1, 64))
	case bool:
		*a = AnswerValue(strconv.FormatBool(v))
	default:
		return fmt.Errorf("scan answer: unsupported type %T", value)
	}
	return nil
}

func (a AnswerValue) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return []byte("null"), nil
	}
	return a, nil
}

func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	*a = append((*a)[:0], data...)
	return nil
}

func (AnswerValue) GormDataType() string {
	return "json"
}

func (AnswerValue) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}
