package pccard

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/pkg/errors"

	"github.com/sammargh/gfdmtools/readat"
	"github.com/sammargh/gfdmtools/utils"
	"github.com/sammargh/gfdmtools/vfs"
)

const (
	RECORD_SIZE    = 0x10
	TABLE_END      = 0xffffffff
	GAME_EXE_COUNT = 2
	GAME_ALIGN     = 0x60000
	DATA6_TABLE    = 0x8000
	DATA6_RECORD   = 0x20
	DATA6_NAME     = 0x10
)

var ErrFormat = errors.New("pccard: invalid format")

// KnownNames are the file names the game looks up by hash.
var KnownNames = []string{
	"fpga_mp3.bin",
	"object_2d_data.bin",
	"arrangement_data.bin",
	"music_info.bin",
	"course_info.bin",
	"t_cb_tmd.bin",
	"v_cb_tmd.bin",
	"gsq_list.bin",
	"tex_group_gf_panel.fcn",
	"ascii_size8.bin",
	"ascii_size16.bin",
	"ascii_size24.bin",
	"rank_size20.bin",
	"tex_group_system.fcn",
	"tex_group_gf_system.fcn",
	"tex_group_gf_wait_server.fcn",
	"tex_group_gf_cg_check.fcn",
	"tex_group_gf_title.fcn",
	"tex_group_gf_game.fcn",
	"tex_group_gf_play_config.fcn",
	"tex_group_gf_frame_0.fcn",
	"tex_group_gf_sta_t_result.fcn",
	"tex_group_internet.fcn",
	"tex_group_music_ranking.fcn",
	"tex_group_setting_unmatch.fcn",
	"tex_group_staff.fcn",
	"tex_group_wait_session.fcn",
	"tex_group_warning_logo.fcn",
}

type Record struct {
	Name   string
	Hash   uint32
	Offset uint32
	Size   uint32
	Flag   uint32
}

type Container struct {
	*vfs.MemoryDirectory `json:"-"`
	TableOffset          int64
	Records              []Record
}

func hashTable(names []string) map[uint32]string {
	table := make(map[uint32]string, len(names))
	for _, name := range names {
		table[utils.FilenameHash(name)] = name
	}
	return table
}

// NewFromReader reads the file table at tableOffset. Files whose hash matches none of names
// are called output_NNNN.bin after their position in the table.
func NewFromReader(name string, r *io.SectionReader, tableOffset int64, names []string) (*Container, error) {
	known := hashTable(names)
	c := &Container{
		MemoryDirectory: vfs.NewMemoryDirectory(name),
		TableOffset:     tableOffset,
	}

	rd := readat.NewReader(r, tableOffset)
	for {
		rec := Record{
			Hash:   rd.U32(),
			Offset: rd.U32(),
			Size:   rd.U32(),
			Flag:   rd.U32(),
		}
		if rd.Err() != nil {
			return nil, errors.Wrapf(ErrFormat, "file table: %v", rd.Err())
		}
		if rec.Offset == TABLE_END {
			break
		}
		if int64(rec.Offset)+int64(rec.Size) > r.Size() {
			return nil, errors.Wrapf(ErrFormat, "file %d [0x%x:+0x%x] is out of bounds", len(c.Records), rec.Offset, rec.Size)
		}

		if n, ok := known[rec.Hash]; ok {
			rec.Name = n
		} else {
			rec.Name = fmt.Sprintf("output_%04d.bin", len(c.Records))
		}
		if !c.Add(vfs.NewSectionFile(rec.Name, r, int64(rec.Offset), int64(rec.Size))) {
			log.Printf("[pccard] %s: duplicate file '%s' ignored", name, rec.Name)
		}
		c.Records = append(c.Records, rec)
	}
	return c, nil
}

// GameTableOffset finds the file table of GAME.DAT: it follows two executables,
// aligned to 0x60000.
func GameTableOffset(r io.ReaderAt) (int64, error) {
	rd := readat.NewReader(r, 0)
	pos := int64(0x24)
	for i := 0; i < GAME_EXE_COUNT; i++ {
		pos += 0x1c
		rd.Seek(pos)
		exeSize := int64(rd.U32())
		pos += 4 + exeSize + 0x800 - 0x1c
		if rem := pos % GAME_ALIGN; rem != 0 {
			pos += GAME_ALIGN - rem
		}
	}
	if rd.Err() != nil {
		return 0, errors.Wrapf(ErrFormat, "game executables: %v", rd.Err())
	}
	return pos, nil
}

type Data6Entry struct {
	Index int
	Name  string
	// Path of the data file inside the DATA6 directory
	Path string
}

// Data6Names lists the names stored in PCCARD1.DAT and the scrambled DATA6 file names they map to.
func Data6Names(r io.ReaderAt) ([]Data6Entry, error) {
	rd := readat.NewReader(r, DATA6_TABLE)
	count := int(rd.U32())
	if rd.Err() != nil {
		return nil, errors.Wrapf(ErrFormat, "data6 table: %v", rd.Err())
	}

	var result []Data6Entry
	for i := 0; i < count; i++ {
		rd.Seek(0x10 + int64(i)*DATA6_RECORD)
		name := utils.BytesToString(rd.Bytes(DATA6_NAME))
		if rd.Err() != nil {
			return nil, errors.Wrapf(ErrFormat, "data6 record %d: %v", i, rd.Err())
		}
		result = append(result, Data6Entry{
			Index: i,
			Name:  name,
			Path:  "DATA6/" + strings.ToUpper(EncryptFilename(name)) + ".DAT",
		})
	}
	return result, nil
}

const filenameKey = "Encrypt using this default key!!"

// EncryptFilename scrambles a name into the 8 lowercase letters used for DATA6 files.
func EncryptFilename(name string) string {
	src := []byte(name)

	chksum := 0
	for _, c := range src {
		chksum += int(c)
	}

	var buf [8]int
	for i := range buf {
		if i < len(src) {
			buf[i] = int(src[i])
		} else {
			buf[i] = int(filenameKey[16+(chksum+len(src))%16])
		}
	}

	for idx := range src {
		buf[idx%8] += int(filenameKey[idx%len(filenameKey)])
		if idx >= 8 {
			buf[idx%8] += int(src[idx])
		}
	}

	for i := 0; i < 8; i++ {
		idx := chksum % 32
		idx2 := (idx + 1) % 32
		s1, s2 := filenameKey[idx]&7, filenameKey[idx2]&7
		buf[s1], buf[s2] = buf[s2], buf[s1]
		chksum = (idx2 + 1) % 32
	}

	out := make([]byte, 8)
	for i, v := range buf {
		out[i] = byte('a' + v%26)
	}
	return string(out)
}
