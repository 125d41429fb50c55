package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/careflow/careflow/internal/config"
	"github.com/careflow/careflow/internal/domain/certification"
	"github.com/careflow/careflow/internal/domain/discipline"
	"github.com/careflow/careflow/internal/domain/entitlement"
	"github.com/careflow/careflow/internal/domain/patient"
	"github.com/careflow/careflow/internal/domain/staff"
	"github.com/careflow/careflow/internal/domain/visitplan"
	"github.com/careflow/careflow/internal/domain/visits"
	"github.com/careflow/careflow/internal/platform/fixture"
	"github.com/careflow/careflow/internal/platform/rest"
	"github.com/careflow/careflow/internal/store"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "careflow",
		Short: "Home-therapy practice management client",
	}

	rootCmd.AddCommand(serveFixtureCmd())
	rootCmd.AddCommand(patientCmd())
	rootCmd.AddCommand(certCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(staffCmd())
	rootCmd.AddCommand(detailCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

func newClient(cfg *config.Config, logger zerolog.Logger) *rest.Client {
	opts := []rest.Option{
		rest.WithTimeout(cfg.APITimeout()),
		rest.WithLogger(logger),
	}
	if cfg.AuthToken != "" {
		opts = append(opts, rest.WithToken(cfg.AuthToken))
	}
	return rest.New(cfg.APIBaseURL, opts...)
}

// setup loads config and builds the shared client and logger every
// client-side subcommand needs.
func setup() (*config.Config, zerolog.Logger, *rest.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Logger{}, nil, err
	}
	logger := newLogger(cfg)
	return cfg, logger, newClient(cfg, logger), nil
}

func serveFixtureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve-fixture",
		Short: "Start the in-memory fixture API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			st := fixture.NewStore()
			if seed, _ := cmd.Flags().GetBool("seed"); seed {
				seedCfg := fixture.DefaultSeedConfig()
				seedCfg.Seed = cfg.FixtureSeed
				res := fixture.Seed(st, seedCfg)
				logger.Info().
					Int("patients", res.Patients).
					Int("staff", res.Staff).
					Int("visits", res.Visits).
					Msg("fixture data seeded")
			}

			e := fixture.NewServer(st, logger, cfg.CORSOrigins)

			go func() {
				addr := ":" + cfg.FixturePort
				logger.Info().Str("addr", addr).Msg("starting fixture server")
				if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server error")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			logger.Info().Msg("shutting down fixture server")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := e.Shutdown(ctx); err != nil {
				logger.Fatal().Err(err).Msg("server shutdown failed")
			}
			return nil
		},
	}
	cmd.Flags().Bool("seed", true, "Seed the store with synthetic data")
	return cmd
}

func patientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Manage patient charts",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the caseload",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, client, err := setup()
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")

			svc := patient.NewService(patient.NewRepoREST(client), certification.NewRepoREST(client), logger)
			patients, total, err := svc.List(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPHONE\tACTIVE")
			for _, p := range patients {
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%t\n", p.ID, p.FirstName, p.LastName, p.DisplayPhone(), p.IsActive)
			}
			w.Flush()
			fmt.Printf("%d of %d\n", len(patients), total)
			return nil
		},
	}
	listCmd.Flags().Int("limit", 20, "Page size")
	listCmd.Flags().Int("offset", 0, "Page offset")
	cmd.AddCommand(listCmd)

	admitCmd := &cobra.Command{
		Use:   "admit",
		Short: "Admit a new patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, client, err := setup()
			if err != nil {
				return err
			}
			in := &patient.Intake{}
			in.FirstName, _ = cmd.Flags().GetString("first-name")
			in.LastName, _ = cmd.Flags().GetString("last-name")
			in.BirthDate, _ = cmd.Flags().GetString("birth-date")
			in.Gender, _ = cmd.Flags().GetString("gender")
			in.Address, _ = cmd.Flags().GetString("address")
			in.Phone, _ = cmd.Flags().GetString("phone")
			in.InitialCertStartDate, _ = cmd.Flags().GetString("cert-start")

			svc := patient.NewService(patient.NewRepoREST(client), certification.NewRepoREST(client), logger)
			p, err := svc.Admit(cmd.Context(), in)
			if p == nil {
				return err
			}
			if err != nil {
				// The chart exists even though the period write failed.
				fmt.Printf("warning: %v\n", err)
			}
			fmt.Printf("admitted %s %s (%s)\n", p.FirstName, p.LastName, p.ID)
			return nil
		},
	}
	admitCmd.Flags().String("first-name", "", "First name")
	admitCmd.Flags().String("last-name", "", "Last name")
	admitCmd.Flags().String("birth-date", "", "Birth date (YYYY-MM-DD)")
	admitCmd.Flags().String("gender", "", "Gender")
	admitCmd.Flags().String("address", "", "Street address")
	admitCmd.Flags().String("phone", "", "Phone number")
	admitCmd.Flags().String("cert-start", "", "Initial certification start date (YYYY-MM-DD)")
	cmd.AddCommand(admitCmd)

	deactivateCmd := &cobra.Command{
		Use:   "deactivate <patient-id>",
		Short: "Mark a chart inactive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, client, err := setup()
			if err != nil {
				return err
			}
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid patient id: %w", err)
			}
			svc := patient.NewService(patient.NewRepoREST(client), certification.NewRepoREST(client), logger)
			return svc.SetActive(cmd.Context(), id, false)
		},
	}
	cmd.AddCommand(deactivateCmd)

	return cmd
}

func certCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cert",
		Short: "Manage certification periods",
	}

	listCmd := &cobra.Command{
		Use:   "list <patient-id>",
		Short: "List a patient's certification periods",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := certService(args[0])
			if err != nil {
				return err
			}
			if err := svc.Load(cmd.Context()); err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTART\tEND\tSTATUS\tREMAINING")
			for _, win := range svc.Windows() {
				fmt.Fprintln(w, windowRow(win, time.Now()))
			}
			return w.Flush()
		},
	}
	cmd.AddCommand(listCmd)

	addCmd := &cobra.Command{
		Use:   "add <patient-id>",
		Short: "Open a new certification period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := certService(args[0])
			if err != nil {
				return err
			}
			if err := svc.Load(cmd.Context()); err != nil {
				return err
			}
			start, err := dateFlag(cmd, "start")
			if err != nil {
				return err
			}
			end, err := dateFlag(cmd, "end")
			if err != nil {
				return err
			}
			insurance, _ := cmd.Flags().GetString("insurance")

			win, warn := svc.Add(cmd.Context(), &certification.Window{
				StartDate: start,
				EndDate:   end,
				Insurance: insurance,
			})
			if win == nil {
				return warn
			}
			if warn != nil {
				fmt.Printf("warning: %v\n", warn)
			}
			fmt.Printf("period %s: %s to %s\n", win.ID,
				win.StartDate.Format(certification.DateFormat),
				win.EndDate.Format(certification.DateFormat))
			return nil
		},
	}
	addCmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	addCmd.Flags().String("end", "", "End date, defaults to sixty days after start")
	addCmd.Flags().String("insurance", "", "Insurance carrier")
	cmd.AddCommand(addCmd)

	selectCmd := &cobra.Command{
		Use:   "select <patient-id> <period-id>",
		Short: "Make a historical period the active one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := certService(args[0])
			if err != nil {
				return err
			}
			if err := svc.Load(cmd.Context()); err != nil {
				return err
			}
			id, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid period id: %w", err)
			}
			_, err = svc.Select(cmd.Context(), id)
			return err
		},
	}
	cmd.AddCommand(selectCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <patient-id> <period-id>",
		Short: "Delete a certification period",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := certService(args[0])
			if err != nil {
				return err
			}
			if err := svc.Load(cmd.Context()); err != nil {
				return err
			}
			id, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("invalid period id: %w", err)
			}
			return svc.Delete(cmd.Context(), id)
		},
	}
	cmd.AddCommand(deleteCmd)

	return cmd
}

func certService(rawPatientID string) (*certification.Service, error) {
	_, logger, client, err := setup()
	if err != nil {
		return nil, err
	}
	pid, err := uuid.Parse(rawPatientID)
	if err != nil {
		return nil, fmt.Errorf("invalid patient id: %w", err)
	}
	return certification.NewService(pid, certification.NewRepoREST(client), logger), nil
}

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage the per-discipline visit plan",
	}

	showCmd := &cobra.Command{
		Use:   "show <patient-id>",
		Short: "Show discipline coverage and frequencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := planService(args[0])
			if err != nil {
				return err
			}
			if err := svc.Load(cmd.Context()); err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DISCIPLINE\tMAIN\tASSISTANT\tFREQUENCY")
			for _, p := range svc.Plans() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Discipline, refName(p.Main), refName(p.Assistant), p.Frequency)
			}
			return w.Flush()
		},
	}
	cmd.AddCommand(showCmd)

	assignCmd := &cobra.Command{
		Use:   "assign <patient-id> <discipline> <slot> <staff-id>",
		Short: "Assign a staff member to a discipline slot",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := planService(args[0])
			if err != nil {
				return err
			}
			d, err := discipline.Parse(args[1])
			if err != nil {
				return err
			}
			slot, err := discipline.ParseSlot(args[2])
			if err != nil {
				return err
			}
			if err := svc.Load(cmd.Context()); err != nil {
				return err
			}
			return svc.AssignStaff(cmd.Context(), d, slot, args[3])
		},
	}
	cmd.AddCommand(assignCmd)

	unassignCmd := &cobra.Command{
		Use:   "unassign <patient-id> <discipline> <slot>",
		Short: "Clear a discipline slot",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := planService(args[0])
			if err != nil {
				return err
			}
			d, err := discipline.Parse(args[1])
			if err != nil {
				return err
			}
			slot, err := discipline.ParseSlot(args[2])
			if err != nil {
				return err
			}
			if err := svc.Load(cmd.Context()); err != nil {
				return err
			}
			return svc.UnassignStaff(cmd.Context(), d, slot)
		},
	}
	cmd.AddCommand(unassignCmd)

	freqCmd := &cobra.Command{
		Use:   "frequency <patient-id> <discipline> <frequency>",
		Short: "Set a discipline's visit frequency on the active period",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, client, err := setup()
			if err != nil {
				return err
			}
			pid, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid patient id: %w", err)
			}
			d, err := discipline.Parse(args[1])
			if err != nil {
				return err
			}

			// Scope the write to the active period.
			certSvc := certification.NewService(pid, certification.NewRepoREST(client), logger)
			if err := certSvc.Load(cmd.Context()); err != nil {
				return err
			}
			active := certSvc.Active()
			if active == nil {
				return fmt.Errorf("patient has no active certification period")
			}

			svc := visitplan.NewService(pid, visitplan.NewRepoREST(client), logger)
			svc.SetCertPeriod(&active.ID)
			return svc.UpdateFrequency(cmd.Context(), d, args[2])
		},
	}
	cmd.AddCommand(freqCmd)

	return cmd
}

func planService(rawPatientID string) (*visitplan.Service, error) {
	_, logger, client, err := setup()
	if err != nil {
		return nil, err
	}
	pid, err := uuid.Parse(rawPatientID)
	if err != nil {
		return nil, fmt.Errorf("invalid patient id: %w", err)
	}
	return visitplan.NewService(pid, visitplan.NewRepoREST(client), logger), nil
}

func staffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Browse the staff directory",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List directory entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, client, err := setup()
			if err != nil {
				return err
			}
			dir := staff.NewDirectory(staff.NewRepoREST(client))
			refs, err := dir.All(cmd.Context())
			if err != nil {
				return err
			}
			role, _ := cmd.Flags().GetString("role")

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tROLE\tPHONE")
			for _, r := range refs {
				if role != "" && !strings.EqualFold(r.Role, role) {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Role, r.DisplayPhone())
			}
			return w.Flush()
		},
	}
	listCmd.Flags().String("role", "", "Filter by role (PT, PTA, OT, COTA, ST, STA, agency)")
	cmd.AddCommand(listCmd)

	return cmd
}

// detailCmd renders the reconciled detail view: every aggregate
// fetched, dispatched through the shared store, and printed from the
// resulting snapshot.
func detailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detail <patient-id>",
		Short: "Show the reconciled patient detail view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, client, err := setup()
			if err != nil {
				return err
			}
			pid, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid patient id: %w", err)
			}
			ctx := cmd.Context()

			st := store.New(logger)

			certRepo := certification.NewRepoREST(client)
			seq := st.Begin(store.AggregateCertWindows)
			windows, err := certRepo.ListByPatient(ctx, pid)
			if err != nil {
				st.SetError(err.Error())
			} else {
				st.ReplaceCertWindows(seq, windows)
			}

			var activeID *uuid.UUID
			for _, w := range windows {
				if w.Status == certification.StatusActive {
					activeID = &w.ID
					break
				}
			}

			planRepo := visitplan.NewRepoREST(client)
			seq = st.Begin(store.AggregatePlans)
			planMap, err := planRepo.Plans(ctx, pid, activeID)
			if err != nil {
				st.SetError(err.Error())
			} else {
				flat := make([]*visitplan.Plan, 0, len(planMap))
				for _, d := range discipline.All() {
					flat = append(flat, planMap[d])
				}
				st.ReplacePlans(seq, flat)
			}

			if activeID != nil {
				visitRepo := visits.NewRepoREST(client)
				seq = st.Begin(store.AggregateVisits)
				vs, err := visitRepo.ListByCertPeriod(ctx, *activeID)
				if err != nil {
					st.SetError(err.Error())
				} else {
					st.ReplaceVisits(seq, vs)
				}
			}

			approved, _ := cmd.Flags().GetStringToString("approved")
			seq = st.Begin(store.AggregateEntitlements)
			st.ReplaceEntitlements(seq, entitlementRecords(approved, st.Snapshot().Visits))

			printSnapshot(st.Snapshot())
			return nil
		},
	}
	cmd.Flags().StringToString("approved", nil, "Approved visit counts per discipline (e.g. PT=12,OT=8)")
	return cmd
}

// entitlementRecords builds the per-discipline counters from
// operator-entered approved counts and the completed visits on file.
func entitlementRecords(approved map[string]string, vs []*visits.Visit) []*entitlement.Record {
	used := make(map[discipline.Discipline]int)
	for _, v := range vs {
		if v.Completed {
			used[v.Discipline]++
		}
	}
	out := make([]*entitlement.Record, 0, len(discipline.All()))
	for _, d := range discipline.All() {
		r := entitlement.NewRecord(d)
		for k, raw := range approved {
			if strings.EqualFold(k, string(d)) {
				r.ApprovedRaw = raw
				r.Approved = entitlement.ParseCount(raw)
			}
		}
		r.Used = used[d]
		r.UsedRaw = fmt.Sprintf("%d", r.Used)
		out = append(out, r)
	}
	return out
}

func printSnapshot(snap store.Snapshot) {
	if snap.LastError != "" {
		fmt.Printf("! %s\n\n", snap.LastError)
	}

	fmt.Println("Certification periods")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tSTART\tEND\tSTATUS\tREMAINING")
	for _, win := range snap.CertWindows {
		fmt.Fprintln(w, "  "+windowRow(win, time.Now()))
	}
	w.Flush()

	fmt.Println("\nVisit plan")
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  DISCIPLINE\tMAIN\tASSISTANT\tFREQUENCY\tSTATUS\tUSED/APPROVED")
	byDiscipline := make(map[discipline.Discipline]*entitlement.Record)
	for _, r := range snap.Entitlements {
		byDiscipline[r.Discipline] = r
	}
	for _, p := range snap.Plans {
		status, counters := "", ""
		if r, ok := byDiscipline[p.Discipline]; ok {
			status = string(r.Status)
			counters = fmt.Sprintf("%d/%d", r.Used, r.Approved)
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\n",
			p.Discipline, refName(p.Main), refName(p.Assistant), p.Frequency, status, counters)
	}
	w.Flush()

	fmt.Printf("\n%d visit(s) on the active period\n", len(snap.Visits))
}

// windowRow formats one certification period as a tab-separated table
// row, including days remaining for windows still in range.
func windowRow(w *certification.Window, now time.Time) string {
	p := certification.ComputeProgress(w.StartDate, w.EndDate, now)
	remaining := "-"
	if w.Status == certification.StatusActive {
		remaining = fmt.Sprintf("%dd", p.DaysRemaining)
	}
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%s",
		w.ID,
		w.StartDate.Format(certification.DateFormat),
		w.EndDate.Format(certification.DateFormat),
		w.Status,
		remaining)
}

func refName(r *staff.Ref) string {
	if r == nil {
		return "-"
	}
	return r.Name
}

func dateFlag(cmd *cobra.Command, name string) (time.Time, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(certification.DateFormat, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return t, nil
}
