package render

import (
	"salamyar/lib/platforms/authapi"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	signedOut = "وارد حساب کاربری نشده‌اید"
	signedIn  = "خوش آمدید، %s"
)

func (r Renderer) User(user *authapi.User) {
	if user == nil {
		r.line(signedOut)
		return
	}
	r.line(signedIn, user.Username)
	t := r.newTable()
	t.AppendRow(table.Row{"نام کاربری", user.Username})
	t.AppendRow(table.Row{"تلفن", user.Phone})
	if user.CreatedAt != "" {
		t.AppendRow(table.Row{"عضویت از", user.CreatedAt})
	}
	t.Render()
}
