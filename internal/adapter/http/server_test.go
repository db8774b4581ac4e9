package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	loanDomain "credconecta-backend/internal/domain/loan"
	"credconecta-backend/internal/domain/uow"
	userDomain "credconecta-backend/internal/domain/user"
	"credconecta-backend/internal/infrastructure/logging"
	"credconecta-backend/internal/testutil/contractmock"
	"credconecta-backend/internal/testutil/loanmock"
	"credconecta-backend/internal/testutil/notificationmock"
	"credconecta-backend/internal/testutil/uowmock"
	"credconecta-backend/internal/testutil/usermock"
	"credconecta-backend/internal/usecase/auth"
	"credconecta-backend/internal/usecase/contract"
	"credconecta-backend/internal/usecase/loan"
	"credconecta-backend/internal/usecase/notification"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	adminPassword = "8470"
	userCPF       = "123.456.789-00"
	userPassword  = "secret"
	userID        = "u0000000000000000000000000000001"
	otherCPF      = "987.654.321-00"
	otherID       = "u0000000000000000000000000000002"
)

// testServer mounts every route over map-backed stores.
type testServer struct {
	e         *echo.Echo
	loans     *loanmock.Store
	contracts *contractmock.Store
	notes     *notificationmock.Store
	users     *usermock.Store
}

func newTestServer(t *testing.T, loans ...loanDomain.Loan) *testServer {
	t.Helper()
	log := logging.Discard()
	s := &testServer{
		loans:     loanmock.NewStore(loans...),
		contracts: contractmock.NewStore(),
		notes:     notificationmock.NewStore(),
		users: usermock.NewStore(
			userDomain.User{ID: userID, FullName: "Ana Souza", CPF: userCPF, Password: userPassword},
			userDomain.User{ID: otherID, FullName: "Bruno Lima", CPF: otherCPF, Password: userPassword},
		),
	}
	tx := uowmock.Passthrough(uow.Repos{Loans: s.loans, Contracts: s.contracts, Notifications: s.notes})

	notifUC := notification.NewUsecase(s.notes, notificationmock.NewSettingsStore(), s.loans, log)
	loanUC := loan.NewUsecase(s.loans, tx, log).WithNotifier(notifUC).WithUsers(s.users)
	contractUC := contract.NewUsecase(s.contracts, contractmock.NewTemplateStore(), tx, log).
		WithNotifier(notifUC).
		WithLoans(s.loans)
	require.NoError(t, contractUC.EnsureDefaultTemplate(context.Background()))
	authUC := auth.NewUsecase(s.users, adminPassword, "test-secret", time.Hour, log)

	s.e = echo.New()
	s.e.Validator = NewValidator()
	Routes{
		Health:        NewHandler(nil),
		Auth:          NewAuthHandler(authUC),
		Loans:         NewLoanHandler(loanUC),
		Contracts:     NewContractHandler(contractUC),
		Notifications: NewNotificationHandler(notifUC),
		Tokens:        authUC,
	}.Register(s.e)
	return s
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *stdhttp.Request
	if body != nil {
		req = httptest.NewRequest(method, path, mustJSON(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T, body map[string]string) string {
	t.Helper()
	rec := s.do(t, stdhttp.MethodPost, "/auth/login", "", body)
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	var sess auth.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	require.NotEmpty(t, sess.Token)
	return sess.Token
}

func (s *testServer) adminToken(t *testing.T) string {
	return s.login(t, map[string]string{"type": "admin", "password": adminPassword})
}

func (s *testServer) userToken(t *testing.T, cpf string) string {
	return s.login(t, map[string]string{"type": "user", "cpf": cpf, "password": userPassword})
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// seedLoan is owned by owner and dated daysAgo days back (plus an hour of slack).
func seedLoan(id, owner string, daysAgo int, penalty int64) loanDomain.Loan {
	now := time.Now().UTC()
	return loanDomain.Loan{
		ID:                    id,
		FullName:              "Cliente " + id,
		CPF:                   userCPF,
		Phone:                 "(11) 98888-7777",
		LoanDate:              now.Add(-time.Duration(daysAgo)*24*time.Hour - time.Hour),
		LoanAmount:            decimal.NewFromInt(1000),
		TotalInstallments:     10,
		RemainingInstallments: 10,
		DailyPenalty:          decimal.NewFromInt(penalty),
		CreatedAt:             now,
		UpdatedAt:             now,
		CreatedBy:             owner,
	}
}
