package fixture

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/careflow/careflow/internal/domain/certification"
	"github.com/careflow/careflow/internal/domain/discipline"
	"github.com/careflow/careflow/internal/domain/patient"
	"github.com/careflow/careflow/internal/domain/staff"
	"github.com/careflow/careflow/internal/domain/visits"
	"github.com/careflow/careflow/pkg/pagination"
)

// Handler serves the practice API wire contract from the in-memory
// store.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/staff/", h.ListStaff)

	e.GET("/patients/", h.ListPatients)
	e.POST("/patients/", h.CreatePatient)
	e.GET("/patients/:id", h.GetPatient)
	e.PUT("/patients/:id", h.UpdatePatient)

	e.GET("/patient/:id/cert-periods", h.ListCertPeriods)
	e.POST("/patients/:id/certification-period", h.CreateCertPeriod)
	e.PUT("/cert-periods/:id", h.UpdateCertPeriod)
	e.DELETE("/cert-periods/:id", h.DeleteCertPeriod)

	e.GET("/patient/:id/assigned-staff", h.AssignedStaff)
	e.POST("/assign-staff", h.AssignStaff)
	e.DELETE("/unassign-staff", h.UnassignStaff)

	e.GET("/visits/certperiod/:id", h.ListVisits)
	e.POST("/visits/assign", h.AssignVisit)
	e.GET("/visit-notes/:visitID", h.ListNotes)
	e.POST("/visit-notes/", h.AddNote)
	e.DELETE("/visit-notes/:id", h.DeleteNote)
}

// -- staff --

func (h *Handler) ListStaff(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Staff())
}

// -- patients --

func (h *Handler) ListPatients(c echo.Context) error {
	params := pagination.FromContext(c)
	all := h.store.Patients()
	total := len(all)
	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.Limit
	if end > total {
		end = total
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(all[start:end], total, params.Limit, params.Offset))
}

func (h *Handler) GetPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, ok := h.store.Patient(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var p patient.Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = uuid.New()
	h.store.AddPatient(&p)
	return c.JSON(http.StatusCreated, p)
}

// UpdatePatient applies changed fields passed as query parameters,
// which is the contract chart edits use.
func (h *Handler) UpdatePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var isActive *bool
	if v := c.QueryParam("is_active"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid is_active")
		}
		isActive = &parsed
	}
	var birthDate *time.Time
	if v := c.QueryParam("birth_date"); v != "" {
		bd, err := time.Parse(certification.DateFormat, v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid birth_date")
		}
		birthDate = &bd
	}
	var contacts []patient.EmergencyContact
	replaceContacts := false
	if v := c.QueryParam("contact_info"); v != "" {
		if err := json.Unmarshal([]byte(v), &contacts); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid contact_info")
		}
		replaceContacts = true
	}

	ok := h.store.UpdatePatient(id, func(p *patient.Patient) {
		if v := c.QueryParam("first_name"); v != "" {
			p.FirstName = v
		}
		if v := c.QueryParam("last_name"); v != "" {
			p.LastName = v
		}
		if v := c.QueryParam("gender"); v != "" {
			p.Gender = v
		}
		if v := c.QueryParam("address"); v != "" {
			p.Address = v
		}
		if v := c.QueryParam("phone"); v != "" {
			p.Phone = v
		}
		if isActive != nil {
			p.IsActive = *isActive
		}
		if birthDate != nil {
			p.BirthDate = birthDate
		}
		if replaceContacts {
			p.Contacts = contacts
		}
	})
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	p, _ := h.store.Patient(id)
	return c.JSON(http.StatusOK, p)
}

// -- certification periods --

type windowDTO struct {
	ID           string `json:"id"`
	PatientID    string `json:"patient_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Insurance    string `json:"insurance,omitempty"`
	PolicyNumber string `json:"policy_number,omitempty"`
	Agency       string `json:"agency,omitempty"`
	Status       string `json:"status"`
}

func toWindowDTO(w *certification.Window) windowDTO {
	return windowDTO{
		ID:           w.ID.String(),
		PatientID:    w.PatientID.String(),
		StartDate:    w.StartDate.Format(certification.DateFormat),
		EndDate:      w.EndDate.Format(certification.DateFormat),
		Insurance:    w.Insurance,
		PolicyNumber: w.PolicyNumber,
		Agency:       w.Agency,
		Status:       w.Status,
	}
}

func (h *Handler) ListCertPeriods(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	windows := h.store.PeriodsByPatient(id)
	if len(windows) == 0 {
		// A patient with no periods on file reads as not-found; the
		// client treats that as "no data yet".
		return echo.NewHTTPError(http.StatusNotFound, "no certification periods")
	}
	out := make([]windowDTO, 0, len(windows))
	for _, w := range windows {
		out = append(out, toWindowDTO(w))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateCertPeriod(c echo.Context) error {
	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if _, ok := h.store.Patient(pid); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	var body struct {
		StartDate    string `json:"start_date"`
		EndDate      string `json:"end_date"`
		Insurance    string `json:"insurance"`
		PolicyNumber string `json:"policy_number"`
		Agency       string `json:"agency"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	start, err := time.Parse(certification.DateFormat, body.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid start_date")
	}
	end, err := time.Parse(certification.DateFormat, body.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid end_date")
	}

	w := h.store.AddPeriod(certification.Window{
		PatientID:    pid,
		StartDate:    start,
		EndDate:      end,
		Insurance:    body.Insurance,
		PolicyNumber: body.PolicyNumber,
		Agency:       body.Agency,
		Status:       certification.StatusActive,
	})
	return c.JSON(http.StatusCreated, toWindowDTO(w))
}

func (h *Handler) UpdateCertPeriod(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body map[string]string
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	applyErr := h.store.UpdatePeriod(id, func(w *certification.Window, freqs map[discipline.Discipline]string) {
		if v, ok := body["status"]; ok {
			w.Status = v
		}
		if v, ok := body["insurance"]; ok {
			w.Insurance = v
		}
		if v, ok := body["policy_number"]; ok {
			w.PolicyNumber = v
		}
		if v, ok := body["agency"]; ok {
			w.Agency = v
		}
		if v, ok := body["start_date"]; ok {
			if t, err := time.Parse(certification.DateFormat, v); err == nil {
				w.StartDate = t
			}
		}
		if v, ok := body["end_date"]; ok {
			if t, err := time.Parse(certification.DateFormat, v); err == nil {
				w.EndDate = t
			}
		}
		for _, d := range discipline.All() {
			key := toFrequencyKey(d)
			if v, ok := body[key]; ok {
				freqs[d] = v
			}
		}
	})
	if applyErr != nil {
		return echo.NewHTTPError(http.StatusNotFound, "period not found")
	}
	w, _ := h.store.Period(id)
	return c.JSON(http.StatusOK, toWindowDTO(w))
}

func toFrequencyKey(d discipline.Discipline) string {
	switch d {
	case discipline.PT:
		return "pt_frequency"
	case discipline.OT:
		return "ot_frequency"
	default:
		return "st_frequency"
	}
}

func (h *Handler) DeleteCertPeriod(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !h.store.DeletePeriod(id) {
		return echo.NewHTTPError(http.StatusNotFound, "period not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// -- assignments --

type assignedStaffDTO struct {
	AssignedPT   *staff.Ref `json:"assigned_pt,omitempty"`
	AssignedPTA  *staff.Ref `json:"assigned_pta,omitempty"`
	AssignedOT   *staff.Ref `json:"assigned_ot,omitempty"`
	AssignedCOTA *staff.Ref `json:"assigned_cota,omitempty"`
	AssignedST   *staff.Ref `json:"assigned_st,omitempty"`
	AssignedSTA  *staff.Ref `json:"assigned_sta,omitempty"`
	PTFrequency  string     `json:"pt_frequency,omitempty"`
	OTFrequency  string     `json:"ot_frequency,omitempty"`
	STFrequency  string     `json:"st_frequency,omitempty"`
}

func (h *Handler) AssignedStaff(c echo.Context) error {
	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if _, ok := h.store.Patient(pid); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}

	dto := assignedStaffDTO{
		AssignedPT:   h.store.Assigned(pid, "PT"),
		AssignedPTA:  h.store.Assigned(pid, "PTA"),
		AssignedOT:   h.store.Assigned(pid, "OT"),
		AssignedCOTA: h.store.Assigned(pid, "COTA"),
		AssignedST:   h.store.Assigned(pid, "ST"),
		AssignedSTA:  h.store.Assigned(pid, "STA"),
	}

	periodID := uuid.Nil
	if raw := c.QueryParam("cert_period_id"); raw != "" {
		periodID, err = uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid cert_period_id")
		}
	} else if active, ok := h.store.ActivePeriod(pid); ok {
		periodID = active.ID
	}
	if periodID != uuid.Nil {
		dto.PTFrequency = h.store.Frequency(periodID, discipline.PT)
		dto.OTFrequency = h.store.Frequency(periodID, discipline.OT)
		dto.STFrequency = h.store.Frequency(periodID, discipline.ST)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *Handler) AssignStaff(c echo.Context) error {
	pid, err := uuid.Parse(c.QueryParam("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}
	staffID := c.QueryParam("staff_id")
	ref, ok := h.store.StaffByID(staffID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "staff not found")
	}
	token := c.QueryParam("discipline")
	if token == "" {
		// Infer the slot from the staff member's role.
		token = ref.Role
	}
	if !validRoleToken(token) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid discipline token")
	}
	h.store.Assign(pid, token, staffID)
	return c.NoContent(http.StatusOK)
}

func (h *Handler) UnassignStaff(c echo.Context) error {
	pid, err := uuid.Parse(c.QueryParam("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}
	token := c.QueryParam("discipline")
	// The wire token "OTA" addresses the COTA slot.
	if token == "OTA" {
		token = "COTA"
	}
	if !validRoleToken(token) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid discipline token")
	}
	h.store.Unassign(pid, token)
	return c.NoContent(http.StatusNoContent)
}

func validRoleToken(token string) bool {
	switch token {
	case "PT", "PTA", "OT", "COTA", "ST", "STA":
		return true
	}
	return false
}

// -- visits and notes --

func (h *Handler) ListVisits(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return c.JSON(http.StatusOK, h.store.VisitsByPeriod(id))
}

func (h *Handler) AssignVisit(c echo.Context) error {
	var v visits.Visit
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !v.Discipline.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid discipline")
	}
	v.ID = uuid.New()
	h.store.AddVisit(&v)
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) ListNotes(c echo.Context) error {
	id, err := uuid.Parse(c.Param("visitID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	return c.JSON(http.StatusOK, h.store.NotesByVisit(id))
}

func (h *Handler) AddNote(c echo.Context) error {
	var n visits.Note
	if err := c.Bind(&n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if n.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}
	n.ID = uuid.New()
	n.CreatedAt = time.Now().UTC()
	h.store.AddNote(&n)
	return c.JSON(http.StatusCreated, n)
}

func (h *Handler) DeleteNote(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !h.store.DeleteNote(id) {
		return echo.NewHTTPError(http.StatusNotFound, "note not found")
	}
	return c.NoContent(http.StatusNoContent)
}
