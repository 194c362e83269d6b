package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"

	"github.com/coregx/fstspell/internal/mmapfile"
	"github.com/coregx/fstspell/speller"
	"github.com/coregx/fstspell/transducer"
)

// ZipArchive is the zip-based container format (conventionally ".zhfst"):
// a "metadata" entry plus one entry per transducer named by the metadata
// record. Only uncompressed (stored) members are accepted; each member is
// read through the zip reader into its own byte slice rather than mapped
// in place out of the archive file.
type ZipArchive struct {
	file     *mmapfile.File
	metadata *Metadata
	speller  *speller.Speller
	acceptor transducer.Transducer
	errmodel transducer.Transducer
}

// OpenZip opens a zip-based speller archive at path.
func OpenZip(path string) (*ZipArchive, error) {
	mf, err := mmapfile.Open(path)
	if err != nil {
		return nil, &MemberError{Member: path, Err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		mf.Close()
		return nil, &MemberError{Member: path, Err: err}
	}

	zr, err := zip.NewReader(newByteReaderAt(mf.Bytes()), info.Size())
	if err != nil {
		mf.Close()
		return nil, &MemberError{Member: path, Err: err}
	}

	byName := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		byName[f.Name] = f
	}

	metaFile, ok := byName["metadata"]
	if !ok {
		mf.Close()
		return nil, &MemberError{Member: "metadata", Err: ErrMissingMember}
	}
	metaBytes, err := readZipMember(metaFile)
	if err != nil {
		mf.Close()
		return nil, &MemberError{Member: "metadata", Err: err}
	}
	metadata, err := ParseMetadata(metaBytes)
	if err != nil {
		mf.Close()
		return nil, err
	}

	acceptorBytes, err := memberBytes(mf, byName, metadata.Acceptor.ID)
	if err != nil {
		mf.Close()
		return nil, err
	}
	errmodelBytes, err := memberBytes(mf, byName, metadata.Errmodel.ID)
	if err != nil {
		mf.Close()
		return nil, err
	}

	acceptor, err := transducer.OpenLegacyBytes(acceptorBytes)
	if err != nil {
		mf.Close()
		return nil, &MemberError{Member: metadata.Acceptor.ID, Err: err}
	}
	errmodel, err := transducer.OpenLegacyBytes(errmodelBytes)
	if err != nil {
		mf.Close()
		return nil, &MemberError{Member: metadata.Errmodel.ID, Err: err}
	}

	sp, err := speller.New(errmodel, acceptor)
	if err != nil {
		mf.Close()
		return nil, err
	}

	return &ZipArchive{
		file:     mf,
		metadata: metadata,
		speller:  sp,
		acceptor: acceptor,
		errmodel: errmodel,
	}, nil
}

func memberBytes(mf *mmapfile.File, byName map[string]*zip.File, name string) ([]byte, error) {
	f, ok := byName[name]
	if !ok {
		return nil, &MemberError{Member: name, Err: ErrMissingMember}
	}
	return readZipMember(f)
}

func readZipMember(f *zip.File) ([]byte, error) {
	if f.Method != zip.Store {
		return nil, fmt.Errorf("%w: %s", ErrCompressedMember, f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Metadata returns the archive's descriptive record.
func (a *ZipArchive) Metadata() (*Metadata, bool) { return a.metadata, a.metadata != nil }

// Speller returns the speller built from this archive's transducers.
func (a *ZipArchive) Speller() *speller.Speller { return a.speller }

// Close releases the archive's memory mapping and every transducer built
// from it.
func (a *ZipArchive) Close() error {
	var firstErr error
	if err := a.acceptor.Close(); err != nil {
		firstErr = err
	}
	if err := a.errmodel.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := a.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// byteReaderAt adapts an in-memory byte slice to io.ReaderAt, letting
// archive/zip read its central directory directly out of the mmap'd bytes
// without a copy.
type byteReaderAt struct {
	data []byte
}

func newByteReaderAt(data []byte) *byteReaderAt { return &byteReaderAt{data: data} }

func (r *byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n := copy(p, r.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
