package service

import (
	"fmt"
	"strings"

	"shallbuy/internal/entity"
)

func accountVerificationEmail(user *entity.User, code string, baseURL string) (string, string) {
	subject := "Welcome to Shallbuy"
	link := fmt.Sprintf("%s/verify/%s", strings.TrimRight(baseURL, "/"), user.ID)
	html := fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Thanks for signing up. Your verification code is <strong>%s</strong>.</p>"+
			"<p><a href=\"%s\">Verify your account</a></p>",
		user.Username, code, link,
	)
	return subject, html
}
