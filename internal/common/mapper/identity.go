package mapper

import (
	"github.com/AlibekovAA/invoice-dashboard/internal/common/dto"
	userdomain "github.com/AlibekovAA/invoice-dashboard/internal/user/domain"
)

func IdentityToDTO(identity userdomain.Identity) dto.Identity {
	return dto.Identity{
		ID:    string(identity.ID),
		Name:  identity.Name,
		Email: identity.Email,
	}
}
