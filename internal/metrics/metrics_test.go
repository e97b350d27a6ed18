package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zot/ui-shell/internal/modules"
	"github.com/zot/ui-shell/internal/registry"
)

func TestObserveSnapshot(t *testing.T) {
	m := New()
	reg := registry.New("")
	reg.OnSwap(m.ObserveSnapshot)
	_, err := reg.Register(modules.Builtin())
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.modules))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.routes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.drawerEntries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.generation))
}

func TestObserveResolve(t *testing.T) {
	m := New()
	m.ObserveResolve(nil)
	m.ObserveResolve(&registry.NotFoundError{Path: "/x"})
	m.ObserveResolve(registry.ErrRegistryNotReady)
	m.ObserveResolve(nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.resolves.WithLabelValues(ResultFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolves.WithLabelValues(ResultNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolves.WithLabelValues(ResultNotReady)))
}

func TestObserveReloadAndHandler(t *testing.T) {
	m := New()
	m.ObserveReload(nil)
	m.ObserveReload(errors.New("boom"))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `ui_shell_reloads_total{result="error"} 1`)
	assert.Contains(t, rec.Body.String(), `ui_shell_reloads_total{result="ok"} 1`)
}
