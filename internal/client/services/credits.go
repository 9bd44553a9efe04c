package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sermonmate/sermonmate/internal/client/api"
	"github.com/sermonmate/sermonmate/internal/client/events"
	"github.com/sermonmate/sermonmate/internal/client/models"
	"github.com/sermonmate/sermonmate/internal/logging"
)

// UserStore is the part of AuthService the credits flow updates.
type UserStore interface {
	State() AuthState
	UpdateUser(user models.User)
}

// CreditsService serves the package catalog and the purchase flow.
//
// Purchase only initializes the payment with the backend. The credit balance
// it shows afterwards is a local estimate (Purchase.Simulated) until the
// server reports the real balance on the next LoadUser.
type CreditsService interface {
	FetchPackages(ctx context.Context) ([]models.CreditPackage, error)
	Packages() []models.CreditPackage
	InitializePayment(ctx context.Context, packageID int64) (*models.PaymentIntent, error)
	Purchase(ctx context.Context, packageID int64) (*models.Purchase, error)
}

type creditsService struct {
	backend Backend
	users   UserStore
	log     logging.Logger

	mu       sync.Mutex
	packages []models.CreditPackage
}

// NewCreditsService constructs a CreditsService. The cached package list is
// cleared when bus reports the end of the session.
func NewCreditsService(backend Backend, users UserStore, bus *events.Bus, log logging.Logger) CreditsService {
	s := &creditsService{backend: backend, users: users, log: log}
	bus.Subscribe(s.onSessionEnded)
	return s
}

func (s *creditsService) onSessionEnded(context.Context, events.Reason) {
	s.mu.Lock()
	s.packages = nil
	s.mu.Unlock()
}

// FetchPackages replaces the cached list on success and keeps the previous
// one on error.
func (s *creditsService) FetchPackages(ctx context.Context) ([]models.CreditPackage, error) {
	resp, err := s.backend.Get(ctx, "/credit-packages")
	if err != nil {
		s.log.Warn(ctx, "failed to fetch credit packages", "error", err)
		return nil, api.WithFallback(err, "Failed to fetch credit packages")
	}

	var pkgs []models.CreditPackage
	if err := resp.Decode("packages", &pkgs); err != nil {
		return nil, api.WithFallback(err, "Failed to fetch credit packages")
	}

	s.mu.Lock()
	s.packages = pkgs
	s.mu.Unlock()
	return s.Packages(), nil
}

func (s *creditsService) Packages() []models.CreditPackage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CreditPackage, len(s.packages))
	copy(out, s.packages)
	return out
}

type initializePaymentRequest struct {
	PackageID int64 `json:"package_id"`
}

func (s *creditsService) InitializePayment(ctx context.Context, packageID int64) (*models.PaymentIntent, error) {
	resp, err := s.backend.Post(ctx, "/payments/initialize", initializePaymentRequest{PackageID: packageID})
	if err != nil {
		return nil, api.WithFallback(err, "Payment initialization failed")
	}
	return &models.PaymentIntent{PackageID: packageID, Payload: json.RawMessage(resp.Body)}, nil
}

func (s *creditsService) Purchase(ctx context.Context, packageID int64) (*models.Purchase, error) {
	st := s.users.State()
	if !st.Authenticated || st.User == nil {
		return nil, ErrNotAuthenticated
	}

	pkg, ok := s.findPackage(packageID)
	if !ok {
		if _, err := s.FetchPackages(ctx); err != nil {
			return nil, err
		}
		if pkg, ok = s.findPackage(packageID); !ok {
			return nil, ErrUnknownPackage
		}
	}

	intent, err := s.InitializePayment(ctx, packageID)
	if err != nil {
		return nil, err
	}

	// Re-read: the session may have ended while the request was in flight.
	st = s.users.State()
	if st.User == nil {
		return nil, ErrNotAuthenticated
	}
	user := *st.User
	user.Credits += pkg.SessionsCount
	s.users.UpdateUser(user)

	s.log.Info(ctx, "payment initialized", "package_id", packageID, "simulated", true)
	return &models.Purchase{Intent: *intent, Package: pkg, CreditsAfter: user.Credits, Simulated: true}, nil
}

func (s *creditsService) findPackage(id int64) (models.CreditPackage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.packages {
		if p.ID == id {
			return p, true
		}
	}
	return models.CreditPackage{}, false
}
