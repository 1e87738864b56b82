package client_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veridata/dataquality-go/client"
)

func TestRuleKindsEndpoint(t *testing.T) {
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rules/kinds/available", r.URL.Path)
		w.Write([]byte(`[
			{"kind":"not_null","param_names":[]},
			{"kind":"range","param_names":["min","max"]}
		]`))
	})

	c := newTestClient(t, srv.URL, nil)
	kinds, err := c.RuleKinds(context.Background())
	require.NoError(t, err)
	require.Len(t, kinds, 2)
	require.Equal(t, []string{"min", "max"}, kinds[1].ParamNames)
}

func TestRuleActivationEndpoints(t *testing.T) {
	var paths []string
	srv := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"id":"r1","active":true}`))
	})

	c := newTestClient(t, srv.URL, nil)
	_, err := c.ActivateRule(context.Background(), "r1")
	require.NoError(t, err)
	_, err = c.DeactivateRule(context.Background(), "r1")
	require.NoError(t, err)
	require.Equal(t, []string{"/rules/r1/activate", "/rules/r1/deactivate"}, paths)
}

func TestSampleRowStringsDropsNonStrings(t *testing.T) {
	result := client.RuleTestResult{
		SampleRows: []any{"row-17", 42.0, "row-63", nil},
	}
	require.Equal(t, []string{"row-17", "row-63"}, result.SampleRowStrings())

	require.Empty(t, client.RuleTestResult{}.SampleRowStrings())
}
