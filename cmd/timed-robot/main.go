// Package main runs the landing gear robot program from a config file.
package main

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	// registers all components.
	_ "go.viam.com/timedrobot/components/register"
	"go.viam.com/timedrobot/config"
	"go.viam.com/timedrobot/logging"
	"go.viam.com/timedrobot/robot"
	"go.viam.com/timedrobot/robots/landinggear"
)

var logger = logging.NewLogger("timed-robot")

// Arguments for the command.
type Arguments struct {
	ConfigFile string `flag:"0,required,usage=robot config file"`
	Mode       string `flag:"mode,usage=run in this mode instead of the configured one (disabled, autonomous, teleop, test or match)"`
	Debug      bool   `flag:"debug"`
}

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) (err error) {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	config.InitLoggingSettings(logger, argsParsed.Debug)

	cfg, err := config.Read(argsParsed.ConfigFile, logger)
	if err != nil {
		return err
	}
	if argsParsed.Mode != "" {
		cfg.Robot.Mode = argsParsed.Mode
		if err := cfg.Robot.Validate("mode"); err != nil {
			return err
		}
	}
	if err := config.ApplyLogConfig(cfg, logger); err != nil {
		return err
	}

	prog, err := newProgram(ctx, cfg, clock.New(), logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, prog.Close(context.Background()))
	}()

	prog.Start()
	logger.Infow("robot running", "mode", cfg.Robot.Mode, "period", prog.runner.Period())
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

// program is a built robot program ready to run.
type program struct {
	resources *robot.Resources
	robot     *landinggear.Robot
	runner    *robot.Runner
	match     *robot.MatchSchedule
}

func newProgram(ctx context.Context, cfg *config.Config, clk clock.Clock, logger logging.Logger) (*program, error) {
	robotCfg, err := landinggear.NewConfig(cfg.Robot.Attributes)
	if err != nil {
		return nil, errors.Wrap(err, "robot attributes")
	}
	if err := robotCfg.Validate("robot.attributes"); err != nil {
		return nil, err
	}
	modes, match, err := modeSource(cfg.Robot, clk)
	if err != nil {
		return nil, err
	}

	res, err := robot.BuildResources(ctx, cfg.Components, logger)
	if err != nil {
		return nil, err
	}
	prog, err := landinggear.NewRobot(res.Dependencies(), *robotCfg, clk, logger.Sublogger("landing-gear"))
	if err != nil {
		return nil, multierr.Combine(err, res.Close(ctx))
	}
	return &program{
		resources: res,
		robot:     prog,
		runner:    robot.NewRunner(prog, modes, clk, cfg.Robot.Period(), logger.Sublogger("runner")),
		match:     match,
	}, nil
}

func modeSource(cfg config.RobotConfig, clk clock.Clock) (robot.ModeSource, *robot.MatchSchedule, error) {
	switch cfg.Mode {
	case config.ModeMatch:
		auto, teleop := cfg.MatchPeriods()
		match := robot.NewMatchSchedule(clk, auto, teleop)
		return match, match, nil
	case "":
		return robot.NewFixedMode(robot.Disabled), nil, nil
	default:
		mode, err := robot.ParseMode(cfg.Mode)
		if err != nil {
			return nil, nil, err
		}
		return robot.NewFixedMode(mode), nil, nil
	}
}

// Start starts the match, if any, and the robot loop.
func (p *program) Start() {
	if p.match != nil {
		p.match.Start()
	}
	p.runner.Start()
}

// Close stops the loop, stops every actuator and closes all components.
func (p *program) Close(ctx context.Context) error {
	p.runner.Stop()
	return multierr.Combine(p.robot.Stop(ctx), p.resources.Close(ctx))
}
