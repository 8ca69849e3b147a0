package session

import "time"

// Step is one stage of the intake conversation. The flow is a fixed linear
// ladder; a session only ever moves forward, except when invalid input
// re-prompts the same step or the self-heal fallback resets to the start.
type Step string

const (
	StepOption       Step = "awaiting_option"
	StepDescription  Step = "awaiting_description"
	StepPhoto        Step = "awaiting_photo"
	StepAddress      Step = "awaiting_address"
	StepLandmark     Step = "awaiting_landmark"
	StepNeighborhood Step = "awaiting_neighborhood"
	StepPhone        Step = "awaiting_phone"
	StepRating       Step = "awaiting_rating"
)

// Image is an inbound photo payload held until it can be stored.
type Image struct {
	Data     []byte
	MimeType string
}

// Record accumulates the intake form answers. JSON keys match the columns
// the spreadsheet Apps Script expects, so this struct is the wire format of
// the salvar_dados call. Fields are only ever appended, never cleared.
type Record struct {
	Name          string `json:"nomeUsuario"`
	ComplaintType string `json:"tipoReclamacao,omitempty"`
	Description   string `json:"descricao,omitempty"`
	Photo         string `json:"foto,omitempty"`
	Address       string `json:"endereco,omitempty"`
	Landmark      string `json:"referencia,omitempty"`
	Neighborhood  string `json:"bairro,omitempty"`
	Phone         string `json:"telefone,omitempty"`
	Protocol      string `json:"protocolo,omitempty"`
	Rating        string `json:"avaliacao,omitempty"`
	SubmittedAt   string `json:"data,omitempty"`

	// Image carries photo bytes for backends that upload after the record
	// row exists. Never serialized.
	Image *Image `json:"-"`
}

// Session is one user's in-progress intake conversation.
type Session struct {
	UserID       string
	Channel      string
	ChatID       string
	Step   Step
	Record Record

	// LastActivity is read by the reaper concurrently with turn handling;
	// it is only accessed under the store's lock (see Store.Touch).
	LastActivity time.Time
}
