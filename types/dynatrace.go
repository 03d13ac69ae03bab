package types

// Field order of these structs is the serialized order of the Dynatrace
// synthetic monitor import format.

const (
	DocumentVersion = "1.0"

	DefaultDescription = "Untitled"
	DefaultURL         = "N/A"
	DefaultMethod      = "GET"
)

type TargetDocument struct {
	Version  string          `json:"version"`
	Requests []TargetRequest `json:"requests"`
}

func NewTargetDocument() TargetDocument {
	return TargetDocument{
		Version:  DocumentVersion,
		Requests: []TargetRequest{},
	}
}

type TargetRequest struct {
	Description          string              `json:"description"`
	URL                  string              `json:"url"`
	Method               string              `json:"method"`
	Validation           TargetValidation    `json:"validation"`
	Configuration        TargetConfiguration `json:"configuration"`
	RequestBody          *string             `json:"requestBody,omitempty"`
	PreProcessingScript  *string             `json:"preProcessingScript,omitempty"`
	PostProcessingScript *string             `json:"postProcessingScript,omitempty"`
}

type TargetValidation struct {
	Rules []TargetValidationRule `json:"rules"`
}

type TargetValidationRule struct {
	Type        string `json:"type"`
	Value       string `json:"value"`
	PassIfFound bool   `json:"passIfFound"`
}

type TargetConfiguration struct {
	AcceptAnyCertificate          bool           `json:"acceptAnyCertificate"`
	FollowRedirects               bool           `json:"followRedirects"`
	ShouldNotPersistSensitiveData bool           `json:"shouldNotPersistSensitiveData"`
	RequestHeaders                []TargetHeader `json:"requestHeaders,omitempty"`
}

type TargetHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewTargetRequest returns a request carrying the fixed validation rule and
// configuration flags. They are never derived from the source collection.
func NewTargetRequest() TargetRequest {
	return TargetRequest{
		Description: DefaultDescription,
		URL:         DefaultURL,
		Method:      DefaultMethod,
		Validation: TargetValidation{
			Rules: []TargetValidationRule{
				{Type: "httpStatusesList", Value: ">=400", PassIfFound: false},
			},
		},
		Configuration: TargetConfiguration{
			AcceptAnyCertificate:          true,
			FollowRedirects:               true,
			ShouldNotPersistSensitiveData: false,
		},
	}
}
