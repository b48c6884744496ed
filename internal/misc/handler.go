package misc

import (
	"encoding/json"
	"net/http"

	"github.com/2beens/runtracker/internal/config"
	"github.com/2beens/runtracker/internal/telemetry/tracing"
	"github.com/2beens/runtracker/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	companyCacheKey    = "company::details"
	companyCacheExpire = 60 * 60 // seconds
	cacheSize          = 1024 * 1024
)

// CompanyDetails is the public company info, as configured
type CompanyDetails struct {
	CompanyName string `json:"company_name"`
	Slogan      string `json:"slogan"`
	Contacts    string `json:"contacts"`
}

type Handler struct {
	company     config.Company
	versionInfo string
	cache       *freecache.Cache
}

func NewHandler(company config.Company, versionInfo string) *Handler {
	return &Handler{
		company:     company,
		versionInfo: versionInfo,
		cache:       freecache.NewCache(cacheSize),
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET").Name("version")
	mainRouter.HandleFunc("/company", handler.handleGetCompany).Methods("GET").Name("company")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}

func (handler *Handler) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.company")
	defer span.End()

	if cached, err := handler.cache.Get([]byte(companyCacheKey)); err == nil {
		log.Trace("company details found in cache")
		pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
		return
	}

	companyJson, err := json.Marshal(CompanyDetails{
		CompanyName: handler.company.Name,
		Slogan:      handler.company.Slogan,
		Contacts:    handler.company.Contacts,
	})
	if err != nil {
		log.Errorf("marshal company details: %s", err)
		pkg.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := handler.cache.Set([]byte(companyCacheKey), companyJson, companyCacheExpire); err != nil {
		log.Errorf("failed to cache company details: %s", err)
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, companyJson)
}
