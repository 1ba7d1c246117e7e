package httpapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteResultAlwaysCarriesDataArray(t *testing.T) {
	ok, err := json.Marshal(WriteOk("ok"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","message":"ok","data":[]}`, string(ok))

	fail, err := json.Marshal(WriteFail("operation unsuccessful"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","message":"operation unsuccessful","data":[]}`, string(fail))
}

func TestJobResultCarriesCodeOnFailure(t *testing.T) {
	b, err := json.Marshal(JobFail(3, "operation unsuccessful"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","message":"operation unsuccessful","data":{"code":3}}`, string(b))
}
