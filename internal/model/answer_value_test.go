package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerValueScan(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{int64(4), `4`},
		{float64(4.5), `4.5`},
		{true, `true`},
		{`"Beleza"`, `"Beleza"`},
		{[]byte(`{"a":1}`), `{"a":1}`},
	}
	for _, c := range cases {
		var a AnswerValue
		require.NoError(t, a.Scan(c.in))
		assert.Equal(t, c.want, string(a))
	}

	var a AnswerValue
	require.NoError(t, a.Scan(nil))
	assert.Nil(t, a)

	assert.Error(t, a.Scan(struct{}{}))
}

func TestAnswerValueScanCopiesBytes(t *testing.T) {
	src := []byte(`"x"`)
	var a AnswerValue
	require.NoError(t, a.Scan(src))
	src[1] = 'y'
	assert.Equal(t, `"x"`, string(a))
}

func TestAnswerValueJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		Answer AnswerValue `json:"answer"`
		Empty  AnswerValue `json:"empty"`
	}{Answer: AnswerValue(`4`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"answer":4,"empty":null}`, string(out))

	var back struct {
		Answer AnswerValue `json:"answer"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"answer":["a","b"]}`), &back))
	assert.Equal(t, `["a","b"]`, string(back.Answer))

	v, err := AnswerValue(`true`).Value()
	require.NoError(t, err)
	assert.Equal(t, "true", v)
	v, err = AnswerValue(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
