//go:build !nopolls
// +build !nopolls

package modules

import "github.com/lordralex/absol/modules/polls"

func init() {
	Add(&polls.Module{})
}
