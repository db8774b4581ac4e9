package http

import (
	stdhttp "net/http"
	"testing"

	userDomain "credconecta-backend/internal/domain/user"
	"credconecta-backend/internal/usecase/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.users.Users[otherID] = userDomain.User{ID: otherID, FullName: "Bruno Lima", CPF: otherCPF, Password: userPassword, IsBlocked: true}

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"admin ok", map[string]string{"type": "admin", "password": adminPassword}, stdhttp.StatusOK},
		{"admin wrong password", map[string]string{"type": "admin", "password": "0000"}, stdhttp.StatusUnauthorized},
		{"user ok", map[string]string{"type": "user", "cpf": userCPF, "password": userPassword}, stdhttp.StatusOK},
		{"user wrong password", map[string]string{"type": "user", "cpf": userCPF, "password": "x"}, stdhttp.StatusUnauthorized},
		{"unknown cpf", map[string]string{"type": "user", "cpf": "111.111.111-11", "password": userPassword}, stdhttp.StatusUnauthorized},
		{"blocked user", map[string]string{"type": "user", "cpf": otherCPF, "password": userPassword}, stdhttp.StatusForbidden},
		{"user without cpf", map[string]string{"type": "user", "password": userPassword}, stdhttp.StatusUnprocessableEntity},
		{"unknown type", map[string]string{"type": "root", "password": "x"}, stdhttp.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, stdhttp.MethodPost, "/auth/login", "", tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	p := decode[auth.Principal](t, s.do(t, stdhttp.MethodGet, "/auth/me", s.userToken(t, userCPF), nil))
	assert.Equal(t, auth.TypeUser, p.Type)
	assert.Equal(t, userID, p.ID)
	assert.Equal(t, "Ana Souza", p.FullName)

	p = decode[auth.Principal](t, s.do(t, stdhttp.MethodGet, "/auth/me", s.adminToken(t), nil))
	assert.True(t, p.IsAdmin())
}

func TestUsers_AdminOnly(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, stdhttp.MethodGet, "/users", s.userToken(t, userCPF), nil)
	assert.Equal(t, stdhttp.StatusForbidden, rec.Code)
}

func TestUsers_CRUD(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)

	rec := s.do(t, stdhttp.MethodPost, "/users", admin, map[string]string{
		"full_name": "Carla Dias", "cpf": "222.333.444-55", "password": "abcd",
	})
	require.Equal(t, stdhttp.StatusCreated, rec.Code, rec.Body.String())
	created := decode[userDomain.User](t, rec)
	assert.Equal(t, userDomain.PaymentPending, created.MonthlyPaymentStatus)
	assert.NotContains(t, rec.Body.String(), `"password"`)

	// cpf must stay unique
	rec = s.do(t, stdhttp.MethodPost, "/users", admin, map[string]string{
		"full_name": "Outra", "cpf": "222.333.444-55", "password": "abcd",
	})
	assert.Equal(t, stdhttp.StatusConflict, rec.Code)

	rec = s.do(t, stdhttp.MethodPost, "/users", admin, map[string]string{"full_name": "X", "cpf": "12", "password": "ab"})
	require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.True(t, containsFieldMsg(resp.Details, "cpf", "CPF"))
	assert.True(t, containsFieldMsg(resp.Details, "password", "at least 4"))

	rec = s.do(t, stdhttp.MethodPatch, "/users/"+created.ID, admin, map[string]string{
		"monthly_payment_status": "paid", "last_payment": "2024-05-10",
	})
	require.Equal(t, stdhttp.StatusOK, rec.Code, rec.Body.String())
	updated := decode[userDomain.User](t, rec)
	assert.Equal(t, userDomain.PaymentPaid, updated.MonthlyPaymentStatus)
	require.NotNil(t, updated.LastPayment)
	assert.Equal(t, "2024-05-10", updated.LastPayment.Format(dateLayout))

	rec = s.do(t, stdhttp.MethodPatch, "/users/"+created.ID, admin, map[string]string{"cpf": userCPF})
	assert.Equal(t, stdhttp.StatusConflict, rec.Code)

	rec = s.do(t, stdhttp.MethodPost, "/users/"+created.ID+"/toggle-block", admin, nil)
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.True(t, decode[userDomain.User](t, rec).IsBlocked)

	list := decode[[]userDomain.User](t, s.do(t, stdhttp.MethodGet, "/users", admin, nil))
	assert.Len(t, list, 3)

	assert.Equal(t, stdhttp.StatusNoContent, s.do(t, stdhttp.MethodDelete, "/users/"+created.ID, admin, nil).Code)
	assert.Equal(t, stdhttp.StatusNotFound, s.do(t, stdhttp.MethodDelete, "/users/"+created.ID, admin, nil).Code)
	assert.Equal(t, stdhttp.StatusNotFound, s.do(t, stdhttp.MethodPost, "/users/nope/toggle-block", admin, nil).Code)
}
