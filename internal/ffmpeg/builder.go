// Package ffmpeg wraps the external transcoding binary: locating it,
// building argument lists, and running streaming jobs whose stdout is piped
// straight to the client connection.
package ffmpeg

import "fmt"

type input struct {
	args []string
	url  string
}

// CommandBuilder assembles an argument list with a fluent API. Inputs are
// emitted in the order they were added, so stream mapping indices follow
// AddInput call order.
type CommandBuilder struct {
	binary     string
	logLevel   string
	inputs     []input
	mapArgs    []string
	filterArgs []string
	outputArgs []string
	output     string
}

// NewCommandBuilder creates a builder for the binary at ffmpegPath. The
// output defaults to stdout.
func NewCommandBuilder(ffmpegPath string) *CommandBuilder {
	return &CommandBuilder{
		binary:   ffmpegPath,
		logLevel: "error",
		output:   "pipe:1",
	}
}

// LogLevel overrides the ffmpeg log level.
func (b *CommandBuilder) LogLevel(level string) *CommandBuilder {
	b.logLevel = level
	return b
}

// AddInput appends an input URL together with its input-side arguments.
func (b *CommandBuilder) AddInput(url string, args ...string) *CommandBuilder {
	b.inputs = append(b.inputs, input{args: args, url: url})
	return b
}

// ReconnectArgs are the input-side flags for resilient HTTP inputs; pass
// them to AddInput for any remote URL.
var ReconnectArgs = []string{"-reconnect", "1", "-reconnect_streamed", "1", "-reconnect_delay_max", "5"}

// Map adds an explicit stream mapping such as "0:v:0".
func (b *CommandBuilder) Map(spec string) *CommandBuilder {
	b.mapArgs = append(b.mapArgs, "-map", spec)
	return b
}

// VideoCodec sets the video codec.
func (b *CommandBuilder) VideoCodec(codec string) *CommandBuilder {
	b.outputArgs = append(b.outputArgs, "-c:v", codec)
	return b
}

// AudioCodec sets the audio codec.
func (b *CommandBuilder) AudioCodec(codec string) *CommandBuilder {
	b.outputArgs = append(b.outputArgs, "-c:a", codec)
	return b
}

// AudioBitrate sets the audio bitrate, e.g. "128k".
func (b *CommandBuilder) AudioBitrate(bitrate string) *CommandBuilder {
	b.outputArgs = append(b.outputArgs, "-b:a", bitrate)
	return b
}

// NoVideo drops all video streams from the output.
func (b *CommandBuilder) NoVideo() *CommandBuilder {
	b.outputArgs = append(b.outputArgs, "-vn")
	return b
}

// Scale adds a scale filter to the given even dimensions.
func (b *CommandBuilder) Scale(width, height int) *CommandBuilder {
	b.filterArgs = append(b.filterArgs, fmt.Sprintf("scale=%d:%d", width, height))
	return b
}

// Preset sets the encoder preset.
func (b *CommandBuilder) Preset(preset string) *CommandBuilder {
	b.outputArgs = append(b.outputArgs, "-preset", preset)
	return b
}

// Shortest truncates the output to the shortest input.
func (b *CommandBuilder) Shortest() *CommandBuilder {
	b.outputArgs = append(b.outputArgs, "-shortest")
	return b
}

// FragmentedMP4 selects an mp4 container laid out for streaming: fragments
// carry their own index so bytes are playable before the job finishes.
func (b *CommandBuilder) FragmentedMP4() *CommandBuilder {
	b.outputArgs = append(b.outputArgs,
		"-movflags", "frag_keyframe+empty_moov+default_base_moof",
		"-f", "mp4",
	)
	return b
}

// Format sets the output container format explicitly.
func (b *CommandBuilder) Format(format string) *CommandBuilder {
	b.outputArgs = append(b.outputArgs, "-f", format)
	return b
}

// OutputArgs appends raw output-side arguments.
func (b *CommandBuilder) OutputArgs(args ...string) *CommandBuilder {
	b.outputArgs = append(b.outputArgs, args...)
	return b
}

// Output overrides the output target.
func (b *CommandBuilder) Output(output string) *CommandBuilder {
	b.output = output
	return b
}

// Build assembles the final command.
func (b *CommandBuilder) Build() *Command {
	args := []string{"-hide_banner", "-loglevel", b.logLevel}
	for _, in := range b.inputs {
		args = append(args, in.args...)
		args = append(args, "-i", in.url)
	}
	args = append(args, b.mapArgs...)
	for _, f := range b.filterArgs {
		args = append(args, "-vf", f)
	}
	args = append(args, b.outputArgs...)
	args = append(args, b.output)

	return &Command{
		Binary: b.binary,
		Args:   args,
	}
}
