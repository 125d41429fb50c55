package integration

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/careflow/careflow/internal/domain/certification"
	"github.com/careflow/careflow/internal/domain/patient"
	"github.com/careflow/careflow/internal/platform/fixture"
	"github.com/careflow/careflow/internal/platform/rest"
)

// env is one test's backend: a fixture API over HTTP plus a client
// pointed at it.
type env struct {
	store  *fixture.Store
	client *rest.Client
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := fixture.NewStore()
	srv := httptest.NewServer(fixture.NewServer(store, zerolog.Nop(), []string{"*"}))
	t.Cleanup(srv.Close)
	return &env{
		store:  store,
		client: rest.New(srv.URL, rest.WithLogger(zerolog.Nop())),
	}
}

func newSeededEnv(t *testing.T) *env {
	t.Helper()
	e := newEnv(t)
	fixture.Seed(e.store, fixture.DefaultSeedConfig())
	return e
}

// admitTestPatient runs a full intake through the patient service so
// downstream tests start from a realistic chart with an active period.
func admitTestPatient(t *testing.T, ctx context.Context, e *env) *patient.Patient {
	t.Helper()
	svc := patient.NewService(
		patient.NewRepoREST(e.client),
		certification.NewRepoREST(e.client),
		zerolog.Nop(),
	)
	p, err := svc.Admit(ctx, &patient.Intake{
		FirstName:            "Rosa",
		LastName:             "Delgado",
		Gender:               "female",
		Phone:                "(555) 201-3344",
		InitialCertStartDate: "2025-02-15",
	})
	if err != nil {
		t.Fatalf("admit patient: %v", err)
	}
	return p
}

func ptrStr(s string) *string { return &s }
