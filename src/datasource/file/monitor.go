// monitor.go
package file

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileMonitor observa um arquivo de dados e avisa quando o conteúdo muda.
// O diretório pai é observado para acompanhar editores que recriam o arquivo.
type FileMonitor struct {
	target   string
	watcher  *fsnotify.Watcher
	lastMod  time.Time
	lastHash string
	mu       sync.Mutex
}

func NewFileMonitor(path string) (*FileMonitor, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("falha ao observar %s: %w", filepath.Dir(target), err)
	}

	m := &FileMonitor{target: target, watcher: watcher}
	// estado inicial, para não disparar sem mudança real
	if info, err := os.Stat(target); err == nil {
		m.lastMod = info.ModTime()
		m.lastHash, _ = fileHash(target)
	}
	return m, nil
}

// LastModified devolve a data de modificação vista por último
func (m *FileMonitor) LastModified() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastMod
}

// Watch bloqueia até o contexto terminar, chamando handler a cada mudança
// de conteúdo do arquivo. O handler roda na mesma goroutine.
func (m *FileMonitor) Watch(ctx context.Context, handler func(string)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != m.target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if m.changed() {
				handler(m.target)
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

// changed compara o hash do conteúdo com a última versão vista; a data de
// modificação sozinha não basta porque gravações próximas podem repeti-la
func (m *FileMonitor) changed() bool {
	info, err := os.Stat(m.target)
	if err != nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastMod = info.ModTime()

	hash, err := fileHash(m.target)
	if err != nil || hash == m.lastHash {
		return false
	}
	m.lastHash = hash
	return true
}

func (m *FileMonitor) Close() error {
	return m.watcher.Close()
}

func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SetupSignalHandler cancela o contexto em SIGINT/SIGTERM
func SetupSignalHandler(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		fmt.Printf("\nSinal recebido: %v, encerrando...\n", sig)
		cancel()
	}()
}
