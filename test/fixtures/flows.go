// Package fixtures provides scripted application flows for integration tests.
package fixtures

import (
	"os"
	"path/filepath"
)

// OnboardingYAML is a four-screen installer: a welcome screen guarded by
// window chrome and a sign-in button, a licence screen whose accept button
// needs the clause list scrolled, an optional-extras screen with an unknown
// button, and a finish screen that closes the application.
const OnboardingYAML = `
app: Launcher
start: welcome
screens:
  welcome:
    elements:
      - role: AXWindow
        title: Welcome to Launcher
        children:
          - role: AXButton
            title: Close
          - role: AXButton
            title: Minimize
          - role: AXButton
            title: Sign in with Google
          - role: AXButton
            title: Continue
    on_press:
      Continue: licence
      Close: exit
      Sign in with Google: exit
  licence:
    elements:
      - role: AXWindow
        title: Licence
        children:
          - role: AXTable
            children:
              - role: AXRow
                title: clause 1
              - role: AXRow
                title: clause 2
                offscreen: true
          - role: AXButton
            title: I Agree
    on_press:
      I Agree: extras
  extras:
    elements:
      - role: AXWindow
        title: Extras
        children:
          - role: AXButton
            title: Install Toolbar
          - role: AXButton
            title: Skip
    on_press:
      Install Toolbar: exit
      Skip: finish
  finish:
    elements:
      - role: AXWindow
        title: Done
        children:
          - role: AXButton
            title: Finish
    on_press:
      Finish: exit
`

// OnboardingConfigYAML configures autopress for OnboardingYAML.
const OnboardingConfigYAML = `
loop:
  base_delay: 5ms
  max_delay: 20ms
  miss_threshold: 10
  terminal_button: Finish
buttons:
  - name: Continue
    action: click
  - name: I Agree
    action: scroll_then_click
  - name: Skip
    action: click
  - name: Finish
    action: click
`

// Flow writes a fixture and matching config into a directory.
type Flow struct {
	Dir string
}

// NewFlow creates a flow writer rooted at dir.
func NewFlow(dir string) *Flow {
	return &Flow{Dir: dir}
}

// FixturePath is where Create writes the fixture.
func (f *Flow) FixturePath() string {
	return filepath.Join(f.Dir, "onboarding.yaml")
}

// ConfigPath is where Create writes the config.
func (f *Flow) ConfigPath() string {
	return filepath.Join(f.Dir, "autopress.yaml")
}

// Create writes the onboarding fixture and config files.
func (f *Flow) Create() error {
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(f.FixturePath(), []byte(OnboardingYAML), 0644); err != nil {
		return err
	}
	return os.WriteFile(f.ConfigPath(), []byte(OnboardingConfigYAML), 0644)
}
