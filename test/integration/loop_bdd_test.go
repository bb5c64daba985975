//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/autopress/internal/daemon"
	"github.com/eliteGoblin/focusd/autopress/internal/domain"
	"github.com/eliteGoblin/focusd/autopress/internal/infra"
	"github.com/eliteGoblin/focusd/autopress/internal/policy"
	"github.com/eliteGoblin/focusd/autopress/internal/uitree"
	"github.com/eliteGoblin/focusd/autopress/internal/usecase"
	"github.com/eliteGoblin/focusd/autopress/test/fixtures"
)

var _ = Describe("Scan loop over the onboarding fixture", func() {
	var (
		tmpDir   string
		cfg      *infra.Config
		source   *infra.FixtureSource
		provider *uitree.TreeProvider
		target   uitree.Target
		registry *policy.ActionRegistry
		status   *infra.StatusFile
		logger   *zap.Logger
	)

	newLoop := func(trigger domain.Trigger) *daemon.Loop {
		lp := daemon.LoopPolicy{
			BaseDelay:          cfg.Loop.BaseDelay,
			MaxDelay:           cfg.Loop.MaxDelay,
			MissThreshold:      cfg.Loop.MissThreshold,
			TerminalButtonName: cfg.Loop.TerminalButton,
		}
		Expect(lp.Validate()).To(Succeed())
		scanner := usecase.NewScanner(provider, registry, target, logger)
		return daemon.NewLoop(lp, scanner, trigger, logger).WithStatus(status, target.App)
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "autopress-integration-*")
		Expect(err).NotTo(HaveOccurred())

		flow := fixtures.NewFlow(tmpDir)
		Expect(flow.Create()).To(Succeed())

		cfg, err = infra.LoadConfig(flow.ConfigPath())
		Expect(err).NotTo(HaveOccurred())

		f, err := infra.LoadFixture(flow.FixturePath())
		Expect(err).NotTo(HaveOccurred())
		source = infra.NewFixtureSource(f)
		provider = uitree.NewTreeProvider(source)
		target = uitree.Target{App: f.App}

		actions, err := cfg.ButtonActions()
		Expect(err).NotTo(HaveOccurred())
		registry = policy.NewActionRegistry(actions, policy.RegistryOptions{})

		status = infra.NewStatusFileWithPath(filepath.Join(tmpDir, "status.json"))
		logger = zap.NewNop()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("Run", func() {
		Context("with the polling trigger", func() {
			It("should press through to the terminal button", func() {
				report, err := newLoop(nil).Run(context.Background())
				Expect(err).NotTo(HaveOccurred())

				Expect(report.Reason).To(Equal(domain.StopCompleted))
				Expect(report.Cycles).To(Equal(4))
				Expect(report.Invoked).To(Equal(4))
				Expect(report.Learned).To(Equal(1))
				Expect(source.Presses()).To(Equal([]string{"Continue", "I Agree", "Skip", "Finish"}))
			})

			It("should never press seeds or unknown buttons", func() {
				_, err := newLoop(nil).Run(context.Background())
				Expect(err).NotTo(HaveOccurred())

				Expect(source.Presses()).NotTo(ContainElement("Close"))
				Expect(source.Presses()).NotTo(ContainElement("Sign in with Google"))
				Expect(source.Presses()).NotTo(ContainElement("Install Toolbar"))

				origin, ok := registry.Origin("install toolbar")
				Expect(ok).To(BeTrue())
				Expect(origin).To(Equal(policy.OriginLearned))
			})

			It("should publish a final stopped heartbeat", func() {
				_, err := newLoop(nil).Run(context.Background())
				Expect(err).NotTo(HaveOccurred())

				got, err := status.Read()
				Expect(err).NotTo(HaveOccurred())
				Expect(got).NotTo(BeNil())
				Expect(got.State).To(Equal(domain.StateStopped.String()))
				Expect(got.StopReason).To(Equal(string(domain.StopCompleted)))
				Expect(got.Target).To(Equal("Launcher"))
				Expect(got.Cycles).To(Equal(4))
			})
		})

		Context("with the event trigger", func() {
			It("should reach the same end state", func() {
				loop := newLoop(daemon.NewEventTrigger(provider.Changes()))

				report, err := loop.Run(context.Background())
				Expect(err).NotTo(HaveOccurred())
				Expect(report.Reason).To(Equal(domain.StopCompleted))
				Expect(source.Presses()).To(Equal([]string{"Continue", "I Agree", "Skip", "Finish"}))
			})
		})

		Context("when the finish button is not configured", func() {
			It("should stop fatally once the application exits", func() {
				cfg.Loop.TerminalButton = ""

				report, err := newLoop(nil).Run(context.Background())
				Expect(err).To(MatchError(domain.ErrSnapshotFailed))
				Expect(err).To(MatchError(domain.ErrTargetGone))
				Expect(report.Reason).To(Equal(domain.StopFatal))
			})
		})

		Context("when nothing on screen is configured", func() {
			It("should stop at the idle limit without pressing anything", func() {
				registry = policy.NewActionRegistry(nil, policy.RegistryOptions{})

				report, err := newLoop(nil).Run(context.Background())
				Expect(err).NotTo(HaveOccurred())
				Expect(report.Reason).To(Equal(domain.StopIdleLimit))
				Expect(report.Invoked).To(BeZero())
				Expect(source.Presses()).To(BeEmpty())
				Expect(source.Screen()).To(Equal("welcome"))
			})
		})

		Context("when cancelled", func() {
			It("should stop promptly with a nil error", func() {
				registry = policy.NewActionRegistry(nil, policy.RegistryOptions{})
				cfg.Loop.MissThreshold = 0
				cfg.Loop.BaseDelay = time.Second
				cfg.Loop.MaxDelay = 10 * time.Second

				ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
				defer cancel()

				start := time.Now()
				report, err := newLoop(nil).Run(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(report.Reason).To(Equal(domain.StopCancelled))
				Expect(time.Since(start)).To(BeNumerically("<", 2*time.Second))
			})
		})
	})
})
