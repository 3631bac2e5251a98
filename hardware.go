package qsurv

import (
	"fmt"
	"time"
)

/*
Capability is one typed row of a device's capability table: the native gate
name with its calibrated duration and error rate. Lookups fail with a typed
error instead of a silent absence.
*/
type Capability struct {
	Gate      string
	Duration  time.Duration
	ErrorRate float64
}

// CapabilityError reports a gate the device does not implement.
type CapabilityError struct {
	Device string
	Gate   string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("device %s has no capability for gate %q", e.Device, e.Gate)
}

/*
DeviceClient is the injected handle to a physical backend. It is constructed
by the caller with whatever credentials the platform needs and passed in
explicitly; nothing in this package holds ambient service state.
*/
type DeviceClient interface {
	Device() string
	Capabilities() ([]Capability, error)
	Submit(c *Circuit, shots int) (OutcomeTable, error)
}

// DeviceError wraps a hardware failure so a sweep can distinguish it from a
// simulation failure and skip or retry that one point.
type DeviceError struct {
	Device string
	Err    error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device %s: %v", e.Device, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

/*
HardwareExecutor runs circuits on a physical device through a DeviceClient.
It satisfies Backend with the same outcome-table shape as the simulator, so a
driver can swap between them untouched. The noise model argument is ignored:
hardware noise is physical, not attached.

Submission is retried per the policy; capability checking happens before the
first attempt so an untranslatable circuit fails fast.
*/
type HardwareExecutor struct {
	client DeviceClient
	retry  *RetryPolicy
}

// NewHardwareExecutor wires an executor to an injected device client. A nil
// policy means a single attempt; a policy without a pacing strategy retries
// without delay.
func NewHardwareExecutor(client DeviceClient, retry *RetryPolicy) *HardwareExecutor {
	return &HardwareExecutor{client: client, retry: retry}
}

// Capability looks up one gate in the device's capability table.
func (h *HardwareExecutor) Capability(gate string) (Capability, error) {
	caps, err := h.client.Capabilities()
	if err != nil {
		return Capability{}, &DeviceError{Device: h.client.Device(), Err: err}
	}
	for _, c := range caps {
		if c.Gate == gate {
			return c, nil
		}
	}
	return Capability{}, &CapabilityError{Device: h.client.Device(), Gate: gate}
}

// Run implements Backend.
func (h *HardwareExecutor) Run(c *Circuit, _ *NoiseModel, shots int) (OutcomeTable, error) {
	if c == nil {
		return nil, fmt.Errorf("nil circuit")
	}
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("invalid circuit: %w", err)
	}
	if err := h.checkCapabilities(c); err != nil {
		return nil, err
	}

	attempts := 1
	if h.retry != nil && h.retry.MaxAttempts > 1 {
		attempts = h.retry.MaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 && h.retry.Strategy != nil {
			time.Sleep(h.retry.Strategy.NextDelay(attempt - 1))
		}
		table, err := h.client.Submit(c, shots)
		if err == nil {
			if got := table.Total(); got != shots {
				return nil, &DeviceError{
					Device: h.client.Device(),
					Err:    fmt.Errorf("returned %d counts for %d shots", got, shots),
				}
			}
			return table, nil
		}
		lastErr = err
		if h.retry != nil && h.retry.Filter != nil && !h.retry.Filter(err) {
			break
		}
	}
	return nil, &DeviceError{Device: h.client.Device(), Err: lastErr}
}

func (h *HardwareExecutor) checkCapabilities(c *Circuit) error {
	seen := make(map[OpKind]bool)
	for _, op := range c.Operations() {
		if op.Kind == OpBarrier || seen[op.Kind] {
			continue
		}
		seen[op.Kind] = true
		if _, err := h.Capability(op.Kind.String()); err != nil {
			return err
		}
	}
	return nil
}
