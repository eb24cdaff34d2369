package intake

// Fixed confidence scores reported by each stage.
const (
	TextConfidence          = 0.90
	ImageConfidence         = 0.75
	EntitiesConfidence      = 0.85
	NormalizationConfidence = 0.90
)

const (
	StatusOK                 = "ok"
	StatusNeedsClarification = "needs_clarification"
)

// RawText is the output of text acquisition.
type RawText struct {
	RawText    string  `json:"raw_text"`
	Confidence float64 `json:"confidence"`
}

// Entities holds the three phrases located by extraction. Normalization
// reads DatePhrase and TimePhrase; assembly reads Department.
type Entities struct {
	DatePhrase string `json:"date_phrase"`
	TimePhrase string `json:"time_phrase"`
	Department string `json:"department"`
}

type ExtractRequest struct {
	RawText string `json:"raw_text"`
}

type ExtractResult struct {
	Entities   Entities `json:"entities"`
	Confidence float64  `json:"entities_confidence"`
}

// NormalizedDateTime is a concrete calendar date and 24-hour clock time in
// a single named timezone.
type NormalizedDateTime struct {
	Date string `json:"date"`
	Time string `json:"time"`
	TZ   string `json:"tz"`
}

type NormalizeRequest struct {
	Entities Entities `json:"entities"`
}

type NormalizeResult struct {
	Normalized NormalizedDateTime `json:"normalized"`
	Confidence float64            `json:"normalization_confidence"`
}

type AppointmentRequest struct {
	Entities   Entities           `json:"entities"`
	Normalized NormalizedDateTime `json:"normalized"`
}

// Appointment is the terminal record produced by assembly.
type Appointment struct {
	Department string `json:"department"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	TZ         string `json:"tz"`
}

type AppointmentResult struct {
	Appointment Appointment `json:"appointment"`
	Status      string      `json:"status"`
}

// ClarificationResponse is the 400 body for inputs that need a re-prompt.
type ClarificationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse is the body for request-validation and internal failures.
type ErrorResponse struct {
	Error string `json:"error"`
}
