package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "usersphere/pkg/test"

	"usersphere/internal/adapter/database/sqlite/repository"
	"usersphere/internal/core/model/response"
	"usersphere/internal/core/port"
	"usersphere/internal/core/service"
	"usersphere/internal/core/telemetry"
	"usersphere/pkg/auth"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerSuite struct {
	suite.Suite
	Router   *gin.Engine
	UserRepo port.UserRepository
	jwtSvc   *auth.JWT
}

func (s *AuthHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db := InitTestDB()
	probe := telemetry.NewNoOpProbe()

	s.UserRepo = repository.NewUserRepository(db, probe)
	s.jwtSvc = auth.New("test-secret", time.Hour)

	authUseCase := service.NewAuthService(s.UserRepo)
	authHandler := NewAuthHandler(authUseCase, s.jwtSvc, nil)

	s.Router = setupAuthTestRouter(authHandler)
}

func TestAuthHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AuthHandlerSuite))
}

func setupAuthTestRouter(authHandler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	public := router.Group("/api")
	{
		public.POST("/register", authHandler.RegisterByEmailAndPassword)
		public.POST("/login", authHandler.AuthByEmailAndPassword)
	}

	return router
}

func (s *AuthHandlerSuite) TestRegisterSuccess() {
	reqBody := strings.NewReader(`{"name": "Jane Doe", "email": "jane@test.com", "password": "12345678"}`)
	req, _ := http.NewRequest("POST", "/api/register", reqBody)

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	body, _ := io.ReadAll(rr.Body)

	data := gin.H{}
	json.Unmarshal(body, &data)

	newData := data["data"].(map[string]any)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(newData["name"]).To(Equal("Jane Doe"))
	Expect(newData["email"]).To(Equal("jane@test.com"))
	Expect(newData["uuid"]).NotTo(BeEmpty())
	Expect(newData["is_active"]).To(Equal(true))
}

func (s *AuthHandlerSuite) TestRegisterNeverLeaksDigest() {
	reqBody := strings.NewReader(`{"name": "Jane Doe", "email": "jane@test.com", "password": "12345678"}`)
	req, _ := http.NewRequest("POST", "/api/register", reqBody)

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	body, _ := io.ReadAll(rr.Body)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(string(body)).NotTo(ContainSubstring("password"))
	Expect(string(body)).NotTo(ContainSubstring("$2a$"))
}

func (s *AuthHandlerSuite) TestRegisterWithAge() {
	reqBody := strings.NewReader(`{"name": "Jane Doe", "email": "jane@test.com", "password": "12345678", "age": 25}`)
	req, _ := http.NewRequest("POST", "/api/register", reqBody)

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	body, _ := io.ReadAll(rr.Body)

	data := gin.H{}
	json.Unmarshal(body, &data)

	newData := data["data"].(map[string]any)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(newData["age"]).To(BeNumerically("==", 25))
}

func (s *AuthHandlerSuite) TestRegisterValidationError() {
	reqBody := strings.NewReader(`{"name": "J", "email": "invalid-email", "password": "123"}`)
	req, _ := http.NewRequest("POST", "/api/register", reqBody)

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body, _ := io.ReadAll(rr.Body)
	data := response.ErrorResponse{}
	json.Unmarshal(body, &data)

	Expect(data.Error.Code).To(Equal("VALIDATION_ERROR"))
	Expect(len(data.Error.Errors)).To(BeNumerically(">=", 3))

	fields := []string{}
	for _, fieldError := range data.Error.Errors {
		fields = append(fields, fieldError.Field)
	}

	Expect(fields).To(ContainElement("name"))
	Expect(fields).To(ContainElement("email"))
	Expect(fields).To(ContainElement("password"))
}

func (s *AuthHandlerSuite) TestRegisterInvalidAge() {
	reqBody := strings.NewReader(`{"name": "Jane Doe", "email": "jane@test.com", "password": "12345678", "age": 0}`)
	req, _ := http.NewRequest("POST", "/api/register", reqBody)

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *AuthHandlerSuite) TestRegisterDuplicateEmail() {
	first := strings.NewReader(`{"name": "Jane Doe", "email": "jane@test.com", "password": "12345678"}`)
	req, _ := http.NewRequest("POST", "/api/register", first)
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	Expect(rr.Code).To(Equal(http.StatusCreated))

	second := strings.NewReader(`{"name": "Jane Again", "email": "jane@test.com", "password": "87654321"}`)
	req, _ = http.NewRequest("POST", "/api/register", second)
	rr = httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusConflict))

	body, _ := io.ReadAll(rr.Body)
	data := response.ErrorResponse{}
	json.Unmarshal(body, &data)

	Expect(data.Error.Code).To(Equal("CONFLICT"))
	Expect(data.Error.Errors[0].Field).To(Equal("email"))
}

func (s *AuthHandlerSuite) TestLoginSuccess() {
	reqBody := strings.NewReader(`{"name": "Jane Doe", "email": "jane@test.com", "password": "12345678"}`)
	req, _ := http.NewRequest("POST", "/api/register", reqBody)
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	registerBody, _ := io.ReadAll(rr.Body)
	registerData := gin.H{}
	json.Unmarshal(registerBody, &registerData)
	registeredUUID := registerData["data"].(map[string]any)["uuid"].(string)

	reqBody = strings.NewReader(`{"email": "jane@test.com", "password": "12345678"}`)
	req, _ = http.NewRequest("POST", "/api/login", reqBody)
	rr = httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body, _ := io.ReadAll(rr.Body)
	data := response.TokenResponse{}
	json.Unmarshal(body, &data)

	Expect(data.Token).NotTo(BeEmpty())

	claims, err := s.jwtSvc.VerifyToken(data.Token)
	Expect(err).To(BeNil())
	Expect(claims.UserUUID).To(Equal(registeredUUID))
	Expect(claims.UserID).To(BeNumerically(">", 0))
}

func (s *AuthHandlerSuite) TestLoginWrongPassword() {
	reqBody := strings.NewReader(`{"name": "Jane Doe", "email": "jane@test.com", "password": "12345678"}`)
	req, _ := http.NewRequest("POST", "/api/register", reqBody)
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	reqBody = strings.NewReader(`{"email": "jane@test.com", "password": "wrongpassword"}`)
	req, _ = http.NewRequest("POST", "/api/login", reqBody)
	rr = httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))

	body, _ := io.ReadAll(rr.Body)
	data := response.ErrorResponse{}
	json.Unmarshal(body, &data)

	Expect(data.Error.Code).To(Equal("UNAUTHORIZED"))
	Expect(data.Error.Errors[0].Message).To(Equal("Invalid email or password"))
}

func (s *AuthHandlerSuite) TestLoginUnknownEmailSameMessage() {
	reqBody := strings.NewReader(`{"email": "ghost@test.com", "password": "12345678"}`)
	req, _ := http.NewRequest("POST", "/api/login", reqBody)
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))

	body, _ := io.ReadAll(rr.Body)
	data := response.ErrorResponse{}
	json.Unmarshal(body, &data)

	// Unknown account and wrong password are indistinguishable.
	Expect(data.Error.Errors[0].Message).To(Equal("Invalid email or password"))
}

func (s *AuthHandlerSuite) TestLoginValidationError() {
	reqBody := strings.NewReader(`{"email": "not-an-email", "password": "12345678"}`)
	req, _ := http.NewRequest("POST", "/api/login", reqBody)
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}
