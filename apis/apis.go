package apis

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/ordshop/trainer-minter/catalog"
	"github.com/ordshop/trainer-minter/export"
	"github.com/ordshop/trainer-minter/fees"
	"github.com/ordshop/trainer-minter/internal/metrics"
	"github.com/ordshop/trainer-minter/minting"
	"github.com/ordshop/trainer-minter/mintlog"
	"github.com/ordshop/trainer-minter/wallet"
)

// Service carries the handler dependencies. AdminAddresses is the fixed
// allow-list for the listing and export endpoints.
type Service struct {
	Wallets        *wallet.Manager
	Orchestrator   *minting.Orchestrator
	Advisor        *fees.Advisor
	Store          mintlog.Store
	AdminAddresses []string
	S3             *export.S3Config
}

func (s *Service) isAdmin(address string) bool {
	for _, admin := range s.AdminAddresses {
		if admin == address {
			return true
		}
	}
	return false
}

func (s *Service) LogMint(c *gin.Context) {
	var req LogMintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.MinterAddress == "" || req.TrainerName == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing required fields"})
		return
	}

	rec := mintlog.MintRecord{
		MinterAddress: req.MinterAddress,
		TrainerName:   req.TrainerName,
		InscriptionID: req.InscriptionID,
		Txid:          req.Txid,
		Price:         req.Price,
		Timestamp:     req.Timestamp,
	}
	rec.FillDefaults(time.Now())

	entry, err := json.Marshal(rec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if err := s.Store.Push(mintlog.ListName, string(entry)); err != nil {
		log.Errorf("failed to store mint record: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	log.Infof("logged mint %s by %s", rec.ID, rec.MinterAddress)
	c.JSON(http.StatusOK, LogMintResponse{Success: true, ID: rec.ID})
}

func (s *Service) ListMints(c *gin.Context) {
	// The allow-list check runs before any store read.
	adminAddress := c.GetHeader("X-Admin-Address")
	if adminAddress == "" || !s.isAdmin(adminAddress) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Unauthorized - Admin access required"})
		return
	}

	entries, err := s.Store.All(mintlog.ListName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Disposition", "attachment; filename=trainer-mints.csv")
		c.Data(http.StatusOK, "text/csv", []byte(export.RenderCSV(entries)))
		return
	}

	// Best-effort parse: entries that are not valid JSON pass through
	// as raw strings instead of being dropped.
	mints := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		var parsed interface{}
		if err := json.Unmarshal([]byte(entry), &parsed); err != nil {
			mints = append(mints, entry)
			continue
		}
		mints = append(mints, parsed)
	}

	c.JSON(http.StatusOK, ListMintsResponse{
		Success: true,
		Count:   len(mints),
		Mints:   mints,
	})
}

func (s *Service) ExportMints(c *gin.Context) {
	adminAddress := c.GetHeader("X-Admin-Address")
	if adminAddress == "" || !s.isAdmin(adminAddress) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Unauthorized - Admin access required"})
		return
	}
	if s.S3 == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Export is not configured"})
		return
	}

	entries, err := s.Store.All(mintlog.ListName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	key, err := export.UploadCSV(c.Request.Context(), *s.S3, export.RenderCSV(entries), 30*time.Second)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, ExportResponse{Success: true, Key: key})
}

func (s *Service) GetWallet(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state":     s.Wallets.State(),
		"installed": s.Wallets.Detect(),
	})
}

func (s *Service) ConnectWallet(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	accounts, err := s.Wallets.Connect(c.Request.Context(), req.WalletType)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, wallet.ErrConnectInFlight) {
			status = http.StatusConflict
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "accounts": accounts})
}

func (s *Service) DisconnectWallet(c *gin.Context) {
	s.Wallets.Disconnect()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// WalletEvents is the webhook for provider-pushed account changes; an empty
// account list disconnects.
func (s *Service) WalletEvents(c *gin.Context) {
	var req AccountsChangedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	s.Wallets.AccountsChanged(req.WalletType, req.Accounts)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Service) GetTrainers(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.Trainers())
}

func (s *Service) GetFees(c *gin.Context) {
	rates := s.Advisor.Current()
	c.JSON(http.StatusOK, FeesResponse{
		Rates:       rates,
		Recommended: rates.HalfHourFee,
	})
}

func (s *Service) StartMint(c *gin.Context) {
	var req StartMintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	trainer, ok := catalog.Find(req.TrainerID)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Unknown trainer"})
		return
	}

	id, err := s.Orchestrator.StartMint(trainer, req.FeeRate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, StartMintResponse{Success: true, AttemptID: id})
}

func (s *Service) GetMintStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.Orchestrator.Status(c.Param("id")))
}

func (s *Service) ResetMint(c *gin.Context) {
	s.Orchestrator.Reset(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Router builds the gin engine with CORS, metrics and every route. Unmatched
// methods on known paths return 405 to match the endpoint contract.
func Router(s *Service, enablePprof bool) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.HandleMethodNotAllowed = true

	r.Use(metrics.HTTP)
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "X-Admin-Address"},
	}))

	if enablePprof {
		pprof.Register(r)
	}

	r.POST("/api/log-mint", s.LogMint)
	r.GET("/api/mints", s.ListMints)
	r.POST("/api/mints/export", s.ExportMints)

	r.GET("/api/wallet", s.GetWallet)
	r.POST("/api/wallet/connect", s.ConnectWallet)
	r.POST("/api/wallet/disconnect", s.DisconnectWallet)
	r.POST("/api/wallet/events", s.WalletEvents)

	r.GET("/api/trainers", s.GetTrainers)
	r.GET("/api/fees", s.GetFees)

	r.POST("/api/mint", s.StartMint)
	r.GET("/api/mint/:id", s.GetMintStatus)
	r.DELETE("/api/mint/:id", s.ResetMint)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	return r
}

func StartService(addr string, s *Service, enableDebug, enablePprof bool) {
	if !enableDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := Router(s, enablePprof)
	if err := r.Run(addr); err != nil {
		log.Fatalf("API service stopped: %v", err)
	}
}
