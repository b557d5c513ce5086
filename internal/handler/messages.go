package handler

const (
	msgLoginRequired = "🔒 Silakan login terlebih dahulu: /login <username> <password>"
	msgInternalError = "❌ Terjadi kesalahan. Coba lagi nanti."
	msgPriceFallback = "⚠️ Harga live tidak tersedia, menggunakan harga cadangan."

	msgSampleUsage = "Gunakan:\n/sample name=Minas; api=35,2; sulfur=0,1; weight=159; place=Riau; address=Jl. Sudirman\n\n" +
		"Kirim foto dengan caption yang sama untuk melampirkan foto sampel."
)

const welcomeText = "🛢 *Penilaian Sampel Minyak Mentah*\n\n" +
	"Catat sampel, klasifikasikan berdasarkan API dan sulfur, lalu hitung estimasi nilainya dari harga minyak terkini.\n\n" +
	"📋 *Perintah:*\n" +
	"/login <user> <pass> - Masuk\n" +
	"/logout - Keluar\n" +
	"/price - Harga minyak terkini\n" +
	"/note <teks> - Simpan catatan\n" +
	"/mynotes - Lihat catatan\n" +
	"/sample k=v; ... - Tambah sampel\n" +
	"/batch - Daftar sampel input\n" +
	"/reset - Kosongkan input\n" +
	"/analysis - Hasil analisis\n" +
	"/chart - Grafik nilai\n" +
	"/save - Simpan ke riwayat\n" +
	"/history - Riwayat sampel\n" +
	"/clear - Hapus riwayat\n" +
	"/export - Unduh riwayat (CSV)"
