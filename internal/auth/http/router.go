package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AlibekovAA/memorize-api/internal/auth/service"
	"github.com/AlibekovAA/memorize-api/internal/common/config"
	commonhttp "github.com/AlibekovAA/memorize-api/internal/common/http"
	"github.com/AlibekovAA/memorize-api/internal/common/jwtverify"
	"github.com/AlibekovAA/memorize-api/internal/common/logger"
	userdomain "github.com/AlibekovAA/memorize-api/internal/user/domain"
)

const (
	msgWelcome       = "Bem vindo a API!"
	msgUserCreated   = "Usuário criado com sucesso!"
	msgLoginSuccess  = "Autenticação realizada com sucesso!"
	msgEditSuccess   = "dados do usuario editado com sucesso"
	msgEditFailed    = "Erro ao atualizar os dados do usuario"
	msgInvalidJSON   = "invalid json"
	msgBodyTooLarge  = "request body too large"
	msgRouteNotFound = "not found"
	msgNotAllowed    = "method not allowed"
)

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmpassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageResponse struct {
	Msg string `json:"msg"`
}

type registerResponse struct {
	Msg        string `json:"msg"`
	UserCriado bool   `json:"userCriado"`
}

type loginResponse struct {
	CurrentUser userdomain.Profile `json:"currentUser"`
	Msg         string             `json:"msg"`
	Token       string             `json:"token"`
}

type userResponse struct {
	User userdomain.Profile `json:"user"`
}

type editResponse struct {
	Msg   string              `json:"msg"`
	Error bool                `json:"error"`
	Docs  *userdomain.Profile `json:"docs"`
}

type memorizeResponse struct {
	Memorize json.RawMessage `json:"Memorize"`
}

type Handler struct {
	auth   *service.AuthService
	errors *commonhttp.ErrorHandler
	log    *logger.Logger
}

// NewHandler builds the API router. Routes under the token group only check
// that the bearer token is valid; the token subject is not matched against
// the id in the path.
func NewHandler(auth *service.AuthService, tokens jwtverify.Verifier, cfg config.Config, log *logger.Logger) http.Handler {
	h := &Handler{
		auth:   auth,
		errors: commonhttp.NewErrorHandler(log),
		log:    log,
	}
	timeout := commonhttp.WithTimeout(cfg.RequestTimeout)

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		commonhttp.WriteErrorEnvelope(w, http.StatusNotFound, commonhttp.ErrorEnvelope{
			Msg:  msgRouteNotFound,
			Code: commonhttp.CodeNotFound,
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.ErrorEnvelope{
			Msg:  msgNotAllowed,
			Code: commonhttp.CodeMethodNotAllowed,
		})
	})

	r.Get("/", h.welcome)
	r.Get("/health", commonhttp.HealthHandler(log))
	r.Post("/auth/register", timeout(h.register))
	r.Post("/auth/login", timeout(h.login))

	r.Group(func(r chi.Router) {
		r.Use(jwtverify.Middleware(tokens, log))
		r.Get("/user/{id}", timeout(h.getUser))
		r.Patch("/auth/edit/{id}", timeout(h.editUser))
		r.Get("/memorize/{id}/item/{itemid}", timeout(h.getMemorizeItem))
	})

	return r
}

func (h *Handler) welcome(w http.ResponseWriter, r *http.Request) {
	commonhttp.WriteJSON(w, http.StatusOK, messageResponse{Msg: msgWelcome})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req, "register") {
		return
	}

	_, err := h.auth.Register(r.Context(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, registerResponse{
		Msg:        msgUserCreated,
		UserCriado: true,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req, "login") {
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, loginResponse{
		CurrentUser: result.User.Profile(),
		Msg:         msgLoginSuccess,
		Token:       result.Token,
	})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GetProfile(r.Context(), userdomain.ID(chi.URLParam(r, "id")))
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, userResponse{User: user.Profile()})
}

// editUser always answers 200; failures are reported through the error flag.
func (h *Handler) editUser(w http.ResponseWriter, r *http.Request) {
	id := userdomain.ID(chi.URLParam(r, "id"))

	// An empty body is an edit with no fields.
	var body map[string]json.RawMessage
	if err := commonhttp.DecodeJSON(r, &body); err != nil && !errors.Is(err, io.EOF) {
		h.log.WithFields(r.Context(), logger.Fields{
			"user_id": string(id),
			"action":  "edit_invalid_json",
		}).Warnf("edit failed: invalid json: %v", err)
		writeEditFailed(w)
		return
	}

	fields, err := parseUpdateFields(body)
	if err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"user_id": string(id),
			"action":  "edit_invalid_fields",
		}).Warnf("edit failed: %v", err)
		writeEditFailed(w)
		return
	}

	user, err := h.auth.EditProfile(r.Context(), id, fields)
	if err != nil {
		writeEditFailed(w)
		return
	}

	profile := user.Profile()
	commonhttp.WriteJSON(w, http.StatusOK, editResponse{
		Msg:   msgEditSuccess,
		Error: false,
		Docs:  &profile,
	})
}

func (h *Handler) getMemorizeItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.auth.GetMemorizeItem(
		r.Context(),
		userdomain.ID(chi.URLParam(r, "id")),
		chi.URLParam(r, "itemid"),
	)
	if err != nil {
		flag := errors.Is(err, service.ErrMemorizeNotFound)
		h.errors.HandleErrorWithFlag(w, r, err, flag)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, memorizeResponse{Memorize: item})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any, action string) bool {
	err := commonhttp.DecodeJSON(r, v)
	if err == nil {
		return true
	}

	h.log.WithFields(r.Context(), logger.Fields{
		"action": action + "_invalid_json",
	}).Warnf("%s failed: invalid json: %v", action, err)

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		commonhttp.WriteErrorEnvelope(w, http.StatusRequestEntityTooLarge, commonhttp.ErrorEnvelope{
			Msg:  msgBodyTooLarge,
			Code: commonhttp.CodeBodyTooLarge,
		})
		return false
	}

	commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.ErrorEnvelope{
		Msg:  msgInvalidJSON,
		Code: commonhttp.CodeInvalidJSON,
	})
	return false
}

func writeEditFailed(w http.ResponseWriter) {
	commonhttp.WriteJSON(w, http.StatusOK, editResponse{
		Msg:   msgEditFailed,
		Error: true,
		Docs:  nil,
	})
}
