package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/registrar/internal/app/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      testSecret,
		AccessTokenExp: time.Hour,
		TokenIssuer:    "registrar-test",
	})
}

func testUser() *models.User {
	return &models.User{ID: 7, Username: "secretariat", Role: models.RoleSecretary}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService()

	token, expiresIn, err := svc.GenerateToken(testUser())
	require.NoError(t, err)
	assert.Equal(t, int64(3600), expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "secretariat", claims.Username)
	assert.Equal(t, "secretary", claims.Role)
	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, "registrar-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	svc := newTestService()
	valid, _, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	expiredSvc := newTestService()
	expiredSvc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredSvc.GenerateToken(testUser())
	require.NoError(t, err)

	otherKey := NewJWTService(JWTConfig{SecretKey: "another-secret-another-secret-xx", AccessTokenExp: time.Hour, TokenIssuer: "registrar-test"})
	forged, _, err := otherKey.GenerateToken(testUser())
	require.NoError(t, err)

	otherIssuer := NewJWTService(JWTConfig{SecretKey: testSecret, AccessTokenExp: time.Hour, TokenIssuer: "someone-else"})
	foreign, _, err := otherIssuer.GenerateToken(testUser())
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 7, Username: "x", Role: "admin"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 7, Username: "x", Role: "janitor",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "registrar-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "valid token", token: valid},
		{name: "no token", token: "", wantErr: ErrMissingToken},
		{name: "garbage", token: "not.a.jwt", wantErr: ErrInvalidToken},
		{name: "expired token", token: expired, wantErr: ErrExpiredToken},
		{name: "wrong key", token: forged, wantErr: ErrInvalidToken},
		{name: "wrong issuer", token: foreign, wantErr: ErrInvalidToken},
		{name: "alg none", token: noneAlg, wantErr: ErrInvalidToken},
		{name: "unknown role", token: badRole, wantErr: ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer abc", want: "abc"},
		{header: "", wantErr: ErrMissingToken},
		{header: "Bearer ", wantErr: ErrMissingToken},
		{header: "Basic dXNlcjpwYXNz", wantErr: ErrInvalidFormat},
		{header: "abc.def.ghi", wantErr: ErrInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
