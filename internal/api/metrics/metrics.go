// Package metrics defines and registers all custom Prometheus metrics for the
// e-commerce API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at import time
// via promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ecommerce"

// --- Auth metrics ---

// LoginAttemptsTotal counts login attempts by final outcome.
// Labels:
//   - platform: "userapp" or "admin"
//   - outcome: "success", "incorrect_password", "locked_out", "user_not_found",
//     "forbidden", "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by platform and outcome.",
	},
	[]string{"platform", "outcome"},
)

// LockoutsTotal counts accounts entering the reactive lockout window.
var LockoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_lockouts_total",
		Help:      "Total number of login attempts rejected by the lockout throttle.",
	},
	[]string{"platform"},
)

// OTPIssuedTotal counts password-reset codes issued.
// Label:
//   - delivered: "true" when the notification was dispatched successfully
var OTPIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_issued_total",
		Help:      "Total number of password reset OTPs issued.",
	},
	[]string{"delivered"},
)

// OTPValidationsTotal counts OTP validation attempts by outcome.
// Label:
//   - outcome: "ok", "invalid", "expired"
var OTPValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_validations_total",
		Help:      "Total number of OTP validation attempts, by outcome.",
	},
	[]string{"outcome"},
)

// PasswordResetsTotal counts completed password resets.
var PasswordResetsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "password_resets_total",
		Help:      "Total number of completed password resets.",
	},
)

// --- Order metrics ---

// OrdersPlacedTotal counts placed orders by currency.
var OrdersPlacedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed, by currency.",
	},
	[]string{"currency"},
)
