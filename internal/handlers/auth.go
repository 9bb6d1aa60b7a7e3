package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	smarthome "smarthome_proxy"
	"smarthome_proxy/internal/cloud"
	"smarthome_proxy/internal/models"
	"smarthome_proxy/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK        = "ok"
	statusLoggedOut = "logged_out"

	defaultAppRedirectURL = "myapp://oauth-callback"

	errCodeAndRegion    = "Code and region are required"
	errInvalidBodyPref  = "invalid body: "
	errInvalidQueryPref = "invalid query: "
)

const redirectTemplate = "redirect"

const redirectPage = `<html>
  <head>
    <title>Redirecting...</title>
  </head>
  <body>
    <p>Redirecting back to app... <a href="{{.Target}}">Continue</a></p>
    <script>
      window.location.href = {{.Target}};
    </script>
  </body>
</html>
`

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		badRequest(c, errInvalidBodyPref+err.Error())
		return false
	}
	return true
}

func hasBody(r *http.Request) bool {
	return r.Body != nil && r.Body != http.NoBody && r.ContentLength != 0
}

// @Summary      Log in
// @Description  With code and region query parameters the OAuth code is exchanged. With a JSON body the account
// @Description  credentials are used. With a still valid session token the session is resumed. Otherwise the
// @Description  OAuth login page URL is returned.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        code    query  string                                  false  "OAuth authorization code"
// @Param        region  query  string                                  false  "Upstream region"  Enums(as,cn,eu,us)
// @Param        body    body   smarthome_proxy.PasswordLoginRequest    false  "Account login"
// @Success      200  {object}  smarthome_proxy.SessionResponse  "session; smarthome_proxy.LoginURLResponse when a login is required"
// @Failure      400  {object}  smarthome_proxy.ErrorResponse
// @Failure      401  {object}  smarthome_proxy.ErrorResponse
// @Failure      500  {object}  smarthome_proxy.ErrorResponse
// @Failure      502  {object}  smarthome_proxy.ErrorResponse
// @Router       /api/login [post]
func (h *Handler) login(c *gin.Context) {
	ctx := c.Request.Context()

	if code := c.Query("code"); code != "" {
		sess, err := h.services.ExchangeCode(ctx, code, c.Query("region"))
		if err != nil {
			h.respondError(c, "login_exchange_failed", err)
			return
		}
		c.JSON(http.StatusOK, smarthome.NewSessionResponse(sess))
		return
	}

	if hasBody(c.Request) {
		var req smarthome.PasswordLoginRequest
		if ok := h.bindJSONOrBadRequest(c, &req); !ok {
			return
		}
		in := cloud.PasswordLogin{
			AppID:       req.AppID,
			AppSecret:   req.AppSecret,
			Email:       req.Email,
			Password:    req.Password,
			CountryCode: req.CountryCode,
		}
		if strings.TrimSpace(req.Region) != "" {
			r, err := models.ParseRegion(req.Region)
			if err != nil {
				h.respondError(c, "login_bad_region", err)
				return
			}
			in.Region = r
		}
		sess, err := h.services.PasswordLogin(ctx, in)
		if err != nil {
			h.respondError(c, "login_password_failed", err)
			return
		}
		c.JSON(http.StatusOK, smarthome.NewSessionResponse(sess))
		return
	}

	if token, _ := bearerToken(c); token != "" {
		sess, err := h.services.Resume(ctx, token)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, smarthome.NewSessionResponse(sess))
			return
		case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrInvalidCredential):
			// stale session: start over at the login page
		default:
			h.respondError(c, "login_resume_failed", err)
			return
		}
	}

	c.JSON(http.StatusOK, smarthome.LoginURLResponse{LoginURL: h.services.LoginURL()})
}

// @Summary      OAuth redirect target
// @Description  Exchanges the authorization code and hands the session token to the app via an auto-redirecting page.
// @Tags         auth
// @Produce      html
// @Param        code    query  string  true  "OAuth authorization code"
// @Param        region  query  string  true  "Upstream region"  Enums(as,cn,eu,us)
// @Success      200  {string}  string  "HTML redirect page"
// @Failure      400  {object}  smarthome_proxy.ErrorResponse
// @Failure      500  {object}  smarthome_proxy.ErrorResponse
// @Failure      502  {object}  smarthome_proxy.ErrorResponse
// @Router       /api/redirectUrl [get]
func (h *Handler) oauthRedirect(c *gin.Context) {
	code, region := c.Query("code"), c.Query("region")
	if code == "" || region == "" {
		badRequest(c, errCodeAndRegion)
		return
	}

	sess, err := h.services.ExchangeCode(c.Request.Context(), code, region)
	if err != nil {
		h.respondError(c, "oauth_redirect_failed", err, "region", region)
		return
	}

	target, err := appRedirectTarget(h.opts.AppRedirectURL, sess.Token)
	if err != nil {
		h.respondError(c, "oauth_redirect_bad_target", err)
		return
	}
	c.HTML(http.StatusOK, redirectTemplate, gin.H{"Target": target})
}

// appRedirectTarget appends token to the app callback URL.
func appRedirectTarget(base, token string) (template.URL, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	// custom app schemes are not on html/template's safe list
	return template.URL(u.String()), nil
}

// @Summary      Log out
// @Description  Forgets the upstream credential and closes the session's WebSocket.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  smarthome_proxy.StatusResponse
// @Failure      401  {object}  smarthome_proxy.ErrorResponse
// @Failure      500  {object}  smarthome_proxy.ErrorResponse
// @Router       /api/logout [post]
// @Security     BearerAuth
func (h *Handler) logout(c *gin.Context) {
	if err := h.services.Logout(c.Request.Context(), sessionID(c)); err != nil {
		h.respondError(c, "logout_failed", err)
		return
	}
	c.JSON(http.StatusOK, smarthome.StatusResponse{Status: statusLoggedOut})
}
