// Package ffmpeg shells out to the ffmpeg binary to strip the audio
// track out of downloaded video containers.
package ffmpeg
