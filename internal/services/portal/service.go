package portal

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/xelth-com/eckmobile/internal/config"
	"github.com/xelth-com/eckmobile/internal/models"
)

const (
	defaultStockEntryLimit = 20
	searchLimit            = 10
)

// Options picks between the endpoint revisions that diverged over time
type Options struct {
	ExcludeConsolidatedPOS     bool
	NotificationsSubmittedOnly bool
	PaymentsIncludeInvoices    bool
	DefaultPhoneRegion         string

	// VerifyToken checks the token passed to UpsertStockEntry. Nil leaves it unverified.
	VerifyToken func(token string) error
}

// OptionsFromConfig maps the portal toggles onto Options. The token verifier is wired by the caller.
func OptionsFromConfig(c config.PortalConfig) Options {
	return Options{
		ExcludeConsolidatedPOS:     c.ExcludeConsolidatedPOS,
		NotificationsSubmittedOnly: c.NotificationsSubmittedOnly,
		PaymentsIncludeInvoices:    c.PaymentsIncludeInvoices,
		DefaultPhoneRegion:         c.DefaultPhoneRegion,
	}
}

// Service is the lookup and aggregation façade in front of the record store
type Service struct {
	store    models.Store
	auth     models.CredentialVerifier
	opts     Options
	validate *validator.Validate
	log      *logrus.Entry
}

// NewService creates the façade
func NewService(store models.Store, auth models.CredentialVerifier, opts Options) *Service {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonFieldName)

	return &Service{
		store:    store,
		auth:     auth,
		opts:     opts,
		validate: validate,
		log:      config.GetLogger().WithField("module", "portal"),
	}
}

// jsonFieldName makes validation errors use the wire names of fields
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// describeValidation renders validator errors as "item_code is required, qty must be >= 0"
func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "gte":
			parts = append(parts, fe.Field()+" must be >= "+fe.Param())
		default:
			parts = append(parts, fe.Field()+" failed "+fe.Tag())
		}
	}
	return strings.Join(parts, ", ")
}
