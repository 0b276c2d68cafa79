package util

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestGenerateEncrypt_RoundTrip(t *testing.T) {
	RegisterTestingT(t)

	digest, err := GenerateEncrypt("sup3rsecret")

	Expect(err).To(BeNil())
	Expect(digest).NotTo(Equal("sup3rsecret"))
	Expect(digest).To(HavePrefix("$2a$"))
	Expect(ComparePassword("sup3rsecret", digest)).To(Succeed())
}

func TestGenerateEncrypt_UniqueSalts(t *testing.T) {
	RegisterTestingT(t)

	first, err := GenerateEncrypt("sup3rsecret")
	Expect(err).To(BeNil())

	second, err := GenerateEncrypt("sup3rsecret")
	Expect(err).To(BeNil())

	Expect(first).NotTo(Equal(second))
}

func TestComparePassword_WrongPassword(t *testing.T) {
	RegisterTestingT(t)

	digest, err := GenerateEncrypt("sup3rsecret")
	Expect(err).To(BeNil())

	Expect(ComparePassword("wrongpassword", digest)).NotTo(Succeed())
}

func TestComparePassword_MalformedDigest(t *testing.T) {
	RegisterTestingT(t)

	// A digest that never came out of GenerateEncrypt must fail the
	// comparison, not panic.
	Expect(ComparePassword("sup3rsecret", "not-a-bcrypt-digest")).NotTo(Succeed())
	Expect(ComparePassword("sup3rsecret", "")).NotTo(Succeed())
}
