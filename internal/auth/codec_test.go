package auth_test

import (
	"encoding/base64"
	"time"

	"github.com/frahmantamala/cxm/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func segment(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func unsignedToken(payload string) string {
	return segment(`{"alg":"HS256","typ":"JWT"}`) + "." + segment(payload) + ".signature"
}

var _ = Describe("Codec", func() {
	var (
		now   time.Time
		codec *auth.Codec
	)

	BeforeEach(func() {
		now = time.Unix(1_700_000_000, 0)
		codec = auth.NewCodecWithClock(func() time.Time { return now })
	})

	It("decodes identity from a signed token", func() {
		gen := auth.NewJWTTokenGenerator("0123456789abcdef0123456789abcdef", time.Hour)
		token, _, err := gen.GenerateAccessToken(&auth.User{ID: "u-1", Role: "مدیر فروش", Email: "a@b.ir"})
		Expect(err).NotTo(HaveOccurred())

		claims := auth.NewCodec().Decode(token)
		Expect(claims).NotTo(BeNil())
		Expect(*claims).To(Equal(auth.IdentityClaims{ID: "u-1", Role: "مدیر فروش", Email: "a@b.ir"}))
	})

	It("does not verify the signature", func() {
		claims := codec.Decode(unsignedToken(`{"id":"u-2","role":"ceo","email":"c@d.ir"}`))
		Expect(claims).NotTo(BeNil())
		Expect(claims.Role).To(Equal("ceo"))
	})

	It("accepts a token without exp", func() {
		Expect(codec.Decode(unsignedToken(`{"id":"u-3"}`))).NotTo(BeNil())
	})

	It("accepts exp equal to now", func() {
		Expect(codec.Decode(unsignedToken(`{"id":"u","exp":1700000000}`))).NotTo(BeNil())
	})

	It("rejects exp in the past", func() {
		Expect(codec.Decode(unsignedToken(`{"id":"u","exp":1699999999}`))).To(BeNil())
	})

	It("stringifies numeric ids", func() {
		claims := codec.Decode(unsignedToken(`{"id":42,"role":"support"}`))
		Expect(claims).NotTo(BeNil())
		Expect(claims.ID).To(Equal("42"))
	})

	DescribeTable("returns nil for malformed input",
		func(token string) {
			Expect(codec.Decode(token)).To(BeNil())
		},
		Entry("empty", ""),
		Entry("two segments", "a.b"),
		Entry("four segments", "a.b.c.d"),
		Entry("bad base64", "a.!!!.c"),
		Entry("not json", "a."+segment("not json")+".c"),
		Entry("json array", "a."+segment(`[1,2]`)+".c"),
		Entry("exp of wrong type", unsignedToken(`{"id":"u","exp":"soon"}`)),
		Entry("missing id", unsignedToken(`{"role":"ceo"}`)),
	)

	It("round-trips claims minted by the generator within their lifetime", func() {
		gen := auth.NewJWTTokenGenerator("0123456789abcdef0123456789abcdef", time.Minute)
		token, exp, err := gen.GenerateAccessToken(&auth.User{ID: "u-9", Role: "ceo", Email: "x@y.ir"})
		Expect(err).NotTo(HaveOccurred())
		Expect(exp).To(BeTemporally("~", time.Now().Add(time.Minute), 2*time.Second))

		parsed, err := gen.ValidateToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed.UserID).To(Equal("u-9"))
		Expect(parsed.Subject).To(Equal("u-9"))

		later := auth.NewCodecWithClock(func() time.Time { return time.Now().Add(2 * time.Minute) })
		Expect(later.Decode(token)).To(BeNil())
	})

	It("rejects tokens signed with another secret on validation", func() {
		gen := auth.NewJWTTokenGenerator("0123456789abcdef0123456789abcdef", time.Minute)
		other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "u"})
		signed, err := other.SignedString([]byte("another-secret-another-secret-xx"))
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.ValidateToken(signed)
		Expect(err).To(MatchError(auth.ErrInvalidToken))
	})
})
