package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	. "github.com/onsi/gomega"
)

func TestCreateToken_RoundTrip(t *testing.T) {
	RegisterTestingT(t)

	jwtSvc := New("test-secret", time.Hour)
	userUUID := uuid.NewString()

	token, err := jwtSvc.CreateToken(42, userUUID)

	Expect(err).To(BeNil())
	Expect(token).ToNot(BeEmpty())

	claims, err := jwtSvc.VerifyToken(token)

	Expect(err).To(BeNil())
	Expect(claims.UserID).To(Equal(42))
	Expect(claims.UserUUID).To(Equal(userUUID))
	Expect(claims.ExpiresAt.Time).To(BeTemporally(">", time.Now()))
}

func TestNew_DefaultTTL(t *testing.T) {
	RegisterTestingT(t)

	jwtSvc := New("test-secret", 0)

	Expect(jwtSvc.TTL).To(Equal(time.Hour))
}

func TestVerifyToken_Expired(t *testing.T) {
	RegisterTestingT(t)

	// Built directly so the constructor cannot clamp the negative TTL.
	expiredSvc := &JWT{Secret: "test-secret", TTL: -time.Hour}

	token, err := expiredSvc.CreateToken(1, uuid.NewString())
	Expect(err).To(BeNil())

	claims, err := expiredSvc.VerifyToken(token)

	Expect(err).To(HaveOccurred())
	Expect(claims).To(BeNil())
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	RegisterTestingT(t)

	token, err := New("one-secret", time.Hour).CreateToken(1, uuid.NewString())
	Expect(err).To(BeNil())

	claims, err := New("another-secret", time.Hour).VerifyToken(token)

	Expect(err).To(HaveOccurred())
	Expect(claims).To(BeNil())
}

func TestVerifyToken_Garbage(t *testing.T) {
	RegisterTestingT(t)

	claims, err := New("test-secret", time.Hour).VerifyToken("not.a.token")

	Expect(err).To(HaveOccurred())
	Expect(claims).To(BeNil())
}

func TestVerifyToken_RejectsUnsignedToken(t *testing.T) {
	RegisterTestingT(t)

	jwtSvc := New("test-secret", time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:   7,
		UserUUID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	Expect(err).To(BeNil())

	claims, err := jwtSvc.VerifyToken(token)

	Expect(err).To(HaveOccurred())
	Expect(claims).To(BeNil())
}
