package service

import (
	"shallbuy/internal/utils"

	"github.com/google/uuid"
)

type JWTTokenIssuer struct {
	Manager *utils.JWTManager
}

func (j JWTTokenIssuer) Sign(userID uuid.UUID) (string, error) {
	if j.Manager == nil {
		return "", utils.ErrInvalidToken
	}
	token, _, err := j.Manager.IssueToken(userID.String())
	return token, err
}
