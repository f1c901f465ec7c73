package result

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindIsExclusive(t *testing.T) {
	t.Parallel()

	cases := map[string]Kind{
		"success": KindSuccess,
		"SUCCESS": KindUnknown,
		" error":  KindUnknown,
		"error":   KindError,
		"pending": KindUnknown,
		"":        KindUnknown,
	}
	for status, want := range cases {
		r := Result{Status: status}
		require.Equal(t, want, r.Kind(), status)
	}
	require.Equal(t, "unknown", Result{}.Label())
	require.Equal(t, "pending", Unknown("pending", nil).Label())
	require.Equal(t, "Unknown error", Result{Status: "error"}.ErrorMessage())
}

func TestSelectPrefersResponse(t *testing.T) {
	t.Parallel()

	data := map[string]any{
		"analysis": "lower priority",
		"copy":     "buy now",
		"response": "hello from otto",
	}
	require.Equal(t, "hello from otto", Select(data))
}

func TestSelectSkipsEmptyValues(t *testing.T) {
	t.Parallel()

	data := map[string]any{
		"response": "",
		"copy":     nil,
		"hooks":    []any{},
		"script":   []any{"scene one", "scene two"},
	}
	require.Equal(t, "- scene one\n- scene two", Select(data))
}

func TestSelectFallsBackToDump(t *testing.T) {
	t.Parallel()

	data := map[string]any{"score": 0.8, "note": "<b>ação</b>"}
	got := Select(data)
	require.Contains(t, got, "\"note\": \"<b>ação</b>\"")
	require.Contains(t, got, "\"score\": 0.8")

	require.Equal(t, "{}", Select(nil))
}

func TestDecode(t *testing.T) {
	t.Parallel()

	r, err := Decode([]byte(`{"status":"success","data":{"hooks":["a","b"]}}`))
	require.NoError(t, err)
	require.Equal(t, KindSuccess, r.Kind())
	require.Equal(t, "- a\n- b", r.Display())

	r, err = Decode([]byte(`{"status":"queued","data":"plain text"}`))
	require.NoError(t, err)
	require.Equal(t, KindUnknown, r.Kind())
	require.Equal(t, "plain text", r.Display())

	_, err = Decode([]byte("not json"))
	require.Error(t, err)
}
