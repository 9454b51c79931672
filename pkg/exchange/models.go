package exchange

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
)

var (
	ErrInvalidState    = errors.New("exo-autoreply: auto-reply state must be one of Scheduled, Enabled, Disabled")
	ErrInvalidSchedule = errors.New("exo-autoreply: schedule end must be after schedule start")
)

// AutoReplyState is the operator-facing auto-reply state. The accepted
// spellings are exact: state selection is case-sensitive.
type AutoReplyState string

const (
	StateScheduled AutoReplyState = "Scheduled"
	StateEnabled   AutoReplyState = "Enabled"
	StateDisabled  AutoReplyState = "Disabled"
)

// ExternalAudience controls who outside the organization receives the
// external reply.
type ExternalAudience string

const (
	AudienceNone  ExternalAudience = "None"
	AudienceKnown ExternalAudience = "Known"
	AudienceAll   ExternalAudience = "All"
)

// ParseState matches the answer against the three valid states. Anything
// else, including case variants, is an error.
func ParseState(answer string) (AutoReplyState, error) {
	switch AutoReplyState(answer) {
	case StateScheduled, StateEnabled, StateDisabled:
		return AutoReplyState(answer), nil
	}
	return "", errors.Wrapf(ErrInvalidState, "got %q", answer)
}

// ParseAudience matches the answer against the three valid audiences. The
// second return reports whether the answer matched; callers decide the
// fallback (the deploy flow coerces unrecognized answers to AudienceAll).
func ParseAudience(answer string) (ExternalAudience, bool) {
	switch ExternalAudience(answer) {
	case AudienceNone, AudienceKnown, AudienceAll:
		return ExternalAudience(answer), true
	}
	return AudienceAll, false
}

// AutoReplyConfig is one auto-reply configuration to push to a mailbox.
// Start and End are meaningful only when State is StateScheduled.
type AutoReplyConfig struct {
	State            AutoReplyState
	Start            time.Time
	End              time.Time
	InternalMessage  string
	ExternalMessage  string
	ExternalAudience ExternalAudience
}

// Validate checks the schedule window. End at or before Start is rejected.
func (c *AutoReplyConfig) Validate() error {
	if c.State != StateScheduled {
		return nil
	}
	if !c.End.After(c.Start) {
		return errors.Wrapf(ErrInvalidSchedule, "start %s, end %s",
			c.Start.Format(time.RFC3339), c.End.Format(time.RFC3339))
	}
	return nil
}

// AutoReplySnapshot is one mailbox's auto-reply configuration as read from
// the service. Times are rendered strings rather than time.Time because the
// service reports them in whatever time zone the mailbox was configured
// with, which is not always resolvable locally.
type AutoReplySnapshot struct {
	State            AutoReplyState
	Start            string
	End              string
	InternalMessage  string
	ExternalMessage  string
	ExternalAudience ExternalAudience
}

// graphTimeLayout is the dateTimeTimeZone wire layout. The service appends
// fractional seconds on reads and accepts their absence on writes.
const graphTimeLayout = "2006-01-02T15:04:05"

func (s AutoReplyState) graphStatus() models.AutomaticRepliesStatus {
	switch s {
	case StateScheduled:
		return models.SCHEDULED_AUTOMATICREPLIESSTATUS
	case StateEnabled:
		return models.ALWAYSENABLED_AUTOMATICREPLIESSTATUS
	default:
		return models.DISABLED_AUTOMATICREPLIESSTATUS
	}
}

func stateFromGraph(status *models.AutomaticRepliesStatus) AutoReplyState {
	if status == nil {
		return StateDisabled
	}
	switch *status {
	case models.SCHEDULED_AUTOMATICREPLIESSTATUS:
		return StateScheduled
	case models.ALWAYSENABLED_AUTOMATICREPLIESSTATUS:
		return StateEnabled
	default:
		return StateDisabled
	}
}

func (a ExternalAudience) graphScope() models.ExternalAudienceScope {
	switch a {
	case AudienceKnown:
		return models.CONTACTSONLY_EXTERNALAUDIENCESCOPE
	case AudienceAll:
		return models.ALL_EXTERNALAUDIENCESCOPE
	default:
		return models.NONE_EXTERNALAUDIENCESCOPE
	}
}

func audienceFromGraph(scope *models.ExternalAudienceScope) ExternalAudience {
	if scope == nil {
		return AudienceNone
	}
	switch *scope {
	case models.CONTACTSONLY_EXTERNALAUDIENCESCOPE:
		return AudienceKnown
	case models.ALL_EXTERNALAUDIENCESCOPE:
		return AudienceAll
	default:
		return AudienceNone
	}
}

// graphSetting builds the automaticRepliesSetting payload for a PATCH.
// Scheduled windows are pushed in UTC; other states carry no window.
func (c *AutoReplyConfig) graphSetting() *models.AutomaticRepliesSetting {
	setting := models.NewAutomaticRepliesSetting()

	status := c.State.graphStatus()
	setting.SetStatus(&status)

	audience := c.ExternalAudience.graphScope()
	setting.SetExternalAudience(&audience)

	internal := c.InternalMessage
	setting.SetInternalReplyMessage(&internal)
	external := c.ExternalMessage
	setting.SetExternalReplyMessage(&external)

	if c.State == StateScheduled {
		setting.SetScheduledStartDateTime(graphDateTime(c.Start))
		setting.SetScheduledEndDateTime(graphDateTime(c.End))
	}

	return setting
}

func graphDateTime(t time.Time) *models.DateTimeTimeZone {
	dtz := models.NewDateTimeTimeZone()
	formatted := t.UTC().Format(graphTimeLayout)
	dtz.SetDateTime(&formatted)
	zone := "UTC"
	dtz.SetTimeZone(&zone)
	return dtz
}

func snapshotFromSettings(settings models.MailboxSettingsable) *AutoReplySnapshot {
	snap := &AutoReplySnapshot{
		State:            StateDisabled,
		ExternalAudience: AudienceNone,
	}
	if settings == nil {
		return snap
	}
	replies := settings.GetAutomaticRepliesSetting()
	if replies == nil {
		return snap
	}

	snap.State = stateFromGraph(replies.GetStatus())
	snap.ExternalAudience = audienceFromGraph(replies.GetExternalAudience())
	snap.Start = renderGraphTime(replies.GetScheduledStartDateTime())
	snap.End = renderGraphTime(replies.GetScheduledEndDateTime())
	if msg := replies.GetInternalReplyMessage(); msg != nil {
		snap.InternalMessage = *msg
	}
	if msg := replies.GetExternalReplyMessage(); msg != nil {
		snap.ExternalMessage = *msg
	}
	return snap
}

// renderGraphTime renders a dateTimeTimeZone as RFC 3339 when the zone is
// resolvable, and as the raw wire values otherwise.
func renderGraphTime(dtz models.DateTimeTimeZoneable) string {
	if dtz == nil || dtz.GetDateTime() == nil {
		return ""
	}
	raw := *dtz.GetDateTime()
	zone := "UTC"
	if dtz.GetTimeZone() != nil && *dtz.GetTimeZone() != "" {
		zone = *dtz.GetTimeZone()
	}

	loc := time.UTC
	if zone != "UTC" {
		parsed, err := time.LoadLocation(zone)
		if err != nil {
			return raw + " (" + zone + ")"
		}
		loc = parsed
	}

	t, err := time.ParseInLocation(graphTimeLayout+".9999999", raw, loc)
	if err != nil {
		return raw + " (" + zone + ")"
	}
	return t.Format(time.RFC3339)
}
