package file

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/giongto35/screen-recorder/pkg/media"
)

const demuxFile = "input.txt"

type entry struct {
	name     string
	duration media.Ticks
}

type demuxMeta struct {
	fps   int
	audio media.AudioFormat
	size  media.Size
	frame string
}

// writeDemuxFile makes FFMPEG concat demuxer file with exact frame durations.
//
// ffmpeg concat demuxer, see: https://ffmpeg.org/ffmpeg-formats.html#concat
// example:
//
//	ffmpeg -f concat -i input.txt \
//		   -ac 2 -channel_layout stereo -i audio.wav \
//		   -b:a 192K -crf 23 -pix_fmt yuv420p \
//		   out.mp4
func writeDemuxFile(dir string, frames []entry, m demuxMeta) (err error) {
	demux, err := newFile(dir, demuxFile)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, demux.Close()) }()

	b := strings.Builder{}
	b.WriteString("ffconcat version 1.0\n")
	b.WriteString(meta("v", "1"))
	b.WriteString(meta("date", time.Now().Format("20060102")))
	b.WriteString(meta("fps", m.fps))
	b.WriteString(meta("size", m.size))
	b.WriteString(meta("format", m.frame))
	if m.audio.Valid() {
		b.WriteString(meta("freq", m.audio.SampleRate))
		b.WriteString(meta("channels", m.audio.Channels))
	}
	b.WriteString("\n")
	for _, f := range frames {
		b.WriteString(fmt.Sprintf("file %v\nduration %f\n", f.name, f.duration.Seconds()))
		if w, h, s := ExtractFileInfo(f.name); w != "" {
			b.WriteString(metaf("width", w))
			b.WriteString(metaf("height", h))
			b.WriteString(metaf("stride", s))
		}
	}
	if _, err = demux.WriteString(b.String()); err != nil {
		return err
	}
	return demux.Flush()
}

// meta adds stream_meta key value line.
func meta(key string, value any) string { return fmt.Sprintf("stream_meta %s '%v'\n", key, value) }

// metaf adds file_packet_meta key value line.
func metaf(key string, value any) string {
	return fmt.Sprintf("file_packet_meta %s '%v'\n", key, value)
}
