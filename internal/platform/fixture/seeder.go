package fixture

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/careflow/careflow/internal/domain/certification"
	"github.com/careflow/careflow/internal/domain/discipline"
	"github.com/careflow/careflow/internal/domain/patient"
	"github.com/careflow/careflow/internal/domain/staff"
	"github.com/careflow/careflow/internal/domain/visits"
)

// SeedConfig controls the volume and shape of generated fixture data.
type SeedConfig struct {
	PatientCount      int   `json:"patient_count"`
	TherapistsPerRole int   `json:"therapists_per_role"`
	AgencyCount       int   `json:"agency_count"`
	VisitsPerPatient  int   `json:"visits_per_patient"`
	Seed              int64 `json:"seed"`
}

// DefaultSeedConfig returns a small but representative data set.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		PatientCount:      12,
		TherapistsPerRole: 2,
		AgencyCount:       2,
		VisitsPerPatient:  4,
		Seed:              1,
	}
}

// SeedResult summarizes what a seed run produced.
type SeedResult struct {
	Patients int `json:"patients"`
	Staff    int `json:"staff"`
	Periods  int `json:"periods"`
	Visits   int `json:"visits"`
}

var firstNames = []string{
	"June", "Marcus", "Rosa", "Theo", "Priya", "Walter", "Ines",
	"Harold", "Naomi", "Viktor", "Celia", "Omar", "Greta", "Louis",
}

var lastNames = []string{
	"Park", "Delgado", "Okafor", "Lindqvist", "Marchetti", "Webb",
	"Tanaka", "Reyes", "Kowalski", "Bennett", "Haddad", "Price",
}

var agencyNames = []string{
	"Home Health Plus", "Cedar Grove Care", "Bright Path Therapy",
	"Northside Home Services",
}

var roleTokens = []string{"PT", "PTA", "OT", "COTA", "ST", "STA"}

// Seed fills the store with a reproducible synthetic caseload: a staff
// roster covering every discipline role, patients with an active
// certification period, a sprinkling of assignments, and scheduled
// visits.
func Seed(store *Store, cfg SeedConfig) SeedResult {
	rng := rand.New(rand.NewSource(cfg.Seed))
	var res SeedResult

	for _, role := range roleTokens {
		for i := 0; i < cfg.TherapistsPerRole; i++ {
			store.AddStaff(&staff.Ref{
				ID:    fmt.Sprintf("staff-%s-%d", role, i+1),
				Name:  pick(rng, firstNames) + " " + pick(rng, lastNames),
				Email: fmt.Sprintf("%s%d@careflow.test", role, i+1),
				Phone: randomPhone(rng),
				Role:  role,
			})
			res.Staff++
		}
	}
	for i := 0; i < cfg.AgencyCount; i++ {
		store.AddStaff(&staff.Ref{
			ID:    fmt.Sprintf("staff-agency-%d", i+1),
			Name:  agencyNames[i%len(agencyNames)],
			Phone: randomPhone(rng),
			Role:  staff.RoleAgency,
		})
		res.Staff++
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < cfg.PatientCount; i++ {
		certStart := today.AddDate(0, 0, -rng.Intn(55))
		p := &patient.Patient{
			ID:                   uuid.New(),
			FirstName:            pick(rng, firstNames),
			LastName:             pick(rng, lastNames),
			Gender:               pick(rng, []string{"female", "male"}),
			Phone:                randomPhone(rng),
			IsActive:             true,
			InitialCertStartDate: &certStart,
		}
		store.AddPatient(p)
		res.Patients++

		w := store.AddPeriod(certification.Window{
			PatientID: p.ID,
			StartDate: certStart,
			EndDate:   certification.DefaultEndDate(certStart),
			Insurance: pick(rng, []string{"Medicare", "Aetna", "BCBS", "United"}),
			Status:    certification.StatusActive,
		})
		res.Periods++

		// Roughly two thirds of the caseload has a PT assigned.
		if rng.Intn(3) > 0 {
			store.Assign(p.ID, "PT", fmt.Sprintf("staff-PT-%d", 1+rng.Intn(cfg.TherapistsPerRole)))
		}

		for v := 0; v < cfg.VisitsPerPatient; v++ {
			visitDate := certStart.AddDate(0, 0, v*7+rng.Intn(3))
			store.AddVisit(&visits.Visit{
				ID:           uuid.New(),
				PatientID:    p.ID,
				CertPeriodID: w.ID,
				Discipline:   discipline.All()[rng.Intn(3)],
				Date:         visitDate,
				Completed:    visitDate.Before(today),
			})
			res.Visits++
		}
	}
	return res
}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.Intn(len(from))]
}

func randomPhone(rng *rand.Rand) string {
	return fmt.Sprintf("555%07d", rng.Intn(10000000))
}
