package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorResponse_MarshalDefaultsType(t *testing.T) {
	e := &ErrorResponse{Err: ErrorDetail{Message: "bad request"}}

	out, err := json.Marshal(e)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"error","error":{"type":"","message":"bad request"}}`, string(out))
}

func TestErrorResponse_ErrorMethod(t *testing.T) {
	e := &ErrorResponse{Err: ErrorDetail{Message: "boom"}}
	require.Equal(t, "boom", e.Error())
}
