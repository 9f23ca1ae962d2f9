// Package controller owns storefront navigation: which client route follows
// each step of the checkout flow and where a failed screen sends the client.
package controller

import "github.com/koaestudio/koa-photos-backend/internal/models"

const (
	HomeRoute           = "/"
	AdminLoginRoute     = "/admin/login"
	AdminDashboardRoute = "/admin"
	AdminNewEventRoute  = "/admin/events/new"
)

func GalleryRoute(eventID string) string {
	return "/event/" + eventID
}

func CheckoutRoute(eventID string) string {
	return "/checkout/" + eventID
}

func PaymentRoute(orderID string) string {
	return "/payment/" + orderID
}

func DownloadRoute(orderID string) string {
	return "/download/" + orderID
}

func AdminEventRoute(eventID string) string {
	return "/admin/events/" + eventID
}

// AfterCheckout: online orders go to payment, offline orders straight to the
// password prompt.
func AfterCheckout(order *models.Order) string {
	if order.PaymentMethod == models.PaymentMethodOnline {
		return PaymentRoute(order.ID)
	}
	return DownloadRoute(order.ID)
}

func AfterPayment(order *models.Order) string {
	return DownloadRoute(order.ID)
}

func AfterEventCreated(event *models.Event) string {
	return AdminEventRoute(event.ID)
}
