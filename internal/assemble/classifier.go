// Package assemble turns an ordered set of page images into one LaTeX document.
package assemble

import (
	"fmt"

	"github.com/noteforge/noteforge/internal/domain"
)

// Classify assigns a structural role to each of count pages.
// The result depends only on position: a lone page is single, otherwise the
// first page opens the document, the last closes it and the rest are middle.
func Classify(count int) ([]domain.PageRole, error) {
	if count <= 0 {
		return nil, domain.ValidationError(fmt.Sprintf("cannot classify %d pages", count), nil)
	}

	roles := make([]domain.PageRole, count)
	for i := range roles {
		roles[i] = RoleAt(i, count)
	}
	return roles, nil
}

// RoleAt returns the role of the page at index in a document of count pages.
func RoleAt(index, count int) domain.PageRole {
	switch {
	case count == 1:
		return domain.RoleSingle
	case index == 0:
		return domain.RoleFirst
	case index == count-1:
		return domain.RoleLast
	default:
		return domain.RoleMiddle
	}
}
