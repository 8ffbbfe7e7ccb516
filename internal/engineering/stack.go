package engineering

import "slices"

// StackChoice is one suggested technology for a concern of the build.
type StackChoice struct {
	Concern string `json:"concern"`
	Choice  string `json:"choice"`
}

// DetectStack derives the suggested stack from a project scope.
// The result is deterministic and ordered by concern.
func DetectStack(s ProjectScope) []StackChoice {
	var out []StackChoice
	add := func(concern, choice string) {
		out = append(out, StackChoice{Concern: concern, Choice: choice})
	}

	web := slices.Contains(s.Platforms, "web")
	mobile := slices.Contains(s.Platforms, "mobile")
	api := slices.Contains(s.Platforms, "api")

	switch {
	case web:
		add("frontend", "Next.js (App Router) + Tailwind CSS")
	case api && !mobile:
		add("frontend", "none (API only)")
	}
	if mobile {
		add("mobile", "React Native (Expo)")
	}
	if api {
		add("api", "versioned REST routes with OpenAPI docs")
	}

	add("database", "Supabase Postgres + Drizzle ORM")

	if s.HasAuth {
		add("auth", "Supabase Auth")
	}
	if s.HasPayments {
		add("payments", "Stripe (Checkout + webhooks)")
	}
	if s.HasRealtime {
		add("realtime", "Supabase Realtime")
	}
	if s.NeedsMarketing {
		add("marketing", "marketing site with SEO metadata")
	}
	if s.NeedsAnalytics {
		add("analytics", "product analytics events")
	}
	if s.NeedsAdminDashboard {
		add("admin", "role-gated admin dashboard")
	}

	switch s.ExpectedUsers {
	case "large":
		add("scaling", "edge caching + connection pooling")
	case "enterprise":
		add("scaling", "edge caching + connection pooling + read replicas")
	}

	c := s.Compliance
	if c.HIPAA {
		add("compliance", "HIPAA: audit logging, encryption at rest, BAA-covered hosting")
	}
	if c.PCI {
		add("compliance", "PCI: hosted payment fields, no card data stored")
	}
	if c.GDPR {
		add("compliance", "GDPR: consent management, data export and deletion")
	}
	if c.SOC2 {
		add("compliance", "SOC 2: access reviews and audit trail")
	}
	if c.COPPA {
		add("compliance", "COPPA: age gate and parental consent")
	}
	return out
}
